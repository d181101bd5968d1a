package shared

// EntryType defines the money movements recorded in the wager ledger
type EntryType string

const (
	EntryTypeStakeDebit   EntryType = "STAKE_DEBIT"
	EntryTypePayoutCredit EntryType = "PAYOUT_CREDIT"
)

func (t EntryType) IsValid() bool {
	return t == EntryTypeStakeDebit || t == EntryTypePayoutCredit
}

// OutboxStatus defines message publishing states
type OutboxStatus string

const (
	OutboxStatusPending         OutboxStatus = "PENDING"
	OutboxStatusProcessed       OutboxStatus = "PROCESSED"
	OutboxStatusFailedToPublish OutboxStatus = "FAILED_TO_PUBLISH"
)

// RejectionReason describes why the recorder refused a ledger entry
type RejectionReason string

const (
	RejectionReasonMissingEntryID RejectionReason = "MISSING_ENTRY_ID"
	RejectionReasonUnknownType    RejectionReason = "UNKNOWN_ENTRY_TYPE"
	RejectionReasonInvalidAmount  RejectionReason = "INVALID_AMOUNT"
	RejectionReasonMissingUser    RejectionReason = "MISSING_USER"
)
