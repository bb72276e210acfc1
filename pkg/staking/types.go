package staking

// AccountStakingState is the resolved owner of a session and its lockup, if any.
type AccountStakingState struct {
	AccountID string `json:"accountId"`
	// LockupID is empty when the account has no lockup contract.
	LockupID string `json:"lockupId,omitempty"`
}

// IDs returns the owned account ids, main account first.
func (a AccountStakingState) IDs() []string {
	ids := []string{a.AccountID}
	if a.LockupID != "" {
		ids = append(ids, a.LockupID)
	}
	return ids
}

// ValidatorAccountEntry is one account's position in one staking pool.
// Amounts are yocto decimal strings.
type ValidatorAccountEntry struct {
	AccountID string `json:"accountId"`
	Staked    string `json:"staked"`
	Unclaimed string `json:"unclaimed"`
	Unstaked  string `json:"unstaked"`
	Available string `json:"available"`
	Pending   string `json:"pending"`
}

// AggregatedAccountTotals sums the validator entries of one account.
// Build it with NewAggregatedTotals so the totals stay consistent.
type AggregatedAccountTotals struct {
	SelectedValidator string                  `json:"selectedValidator"`
	TotalPending      string                  `json:"totalPending"`
	TotalAvailable    string                  `json:"totalAvailable"`
	TotalUnstaked     string                  `json:"totalUnstaked"`
	TotalStaked       string                  `json:"totalStaked"`
	TotalUnclaimed    string                  `json:"totalUnclaimed"`
	Validators        []ValidatorAccountEntry `json:"validators"`
}

// DefaultTotals is the zeroed aggregate.
func DefaultTotals() AggregatedAccountTotals {
	return AggregatedAccountTotals{
		TotalPending:   "0",
		TotalAvailable: "0",
		TotalUnstaked:  "0",
		TotalStaked:    "0",
		TotalUnclaimed: "0",
		Validators:     []ValidatorAccountEntry{},
	}
}

// NewAggregatedTotals computes the totals from entries.
func NewAggregatedTotals(selected string, entries []ValidatorAccountEntry) (AggregatedAccountTotals, error) {
	t := DefaultTotals()
	t.SelectedValidator = selected
	t.Validators = append(t.Validators, entries...)

	column := func(pick func(ValidatorAccountEntry) string) (string, error) {
		values := make([]string, 0, len(entries))
		for _, e := range entries {
			values = append(values, pick(e))
		}
		return sumAmounts(values...)
	}

	var err error
	if t.TotalPending, err = column(func(e ValidatorAccountEntry) string { return e.Pending }); err != nil {
		return AggregatedAccountTotals{}, err
	}
	if t.TotalAvailable, err = column(func(e ValidatorAccountEntry) string { return e.Available }); err != nil {
		return AggregatedAccountTotals{}, err
	}
	if t.TotalUnstaked, err = column(func(e ValidatorAccountEntry) string { return e.Unstaked }); err != nil {
		return AggregatedAccountTotals{}, err
	}
	if t.TotalStaked, err = column(func(e ValidatorAccountEntry) string { return e.Staked }); err != nil {
		return AggregatedAccountTotals{}, err
	}
	if t.TotalUnclaimed, err = column(func(e ValidatorAccountEntry) string { return e.Unclaimed }); err != nil {
		return AggregatedAccountTotals{}, err
	}
	return t, nil
}

// StakingAccount is an owned account with its aggregated staking position.
type StakingAccount struct {
	AccountID string `json:"accountId"`
	AggregatedAccountTotals
}

// NewStakingAccount returns an account entry with zeroed totals.
func NewStakingAccount(accountID string) StakingAccount {
	return StakingAccount{AccountID: accountID, AggregatedAccountTotals: DefaultTotals()}
}

// StakingState is the staking view of the current session.
type StakingState struct {
	AllValidators  []string         `json:"allValidators"`
	Accounts       []StakingAccount `json:"accounts"`
	IsLockup       bool             `json:"isLockup"`
	CurrentAccount StakingAccount   `json:"currentAccount"`
}

// InitialState is the state after login or an account switch.
func InitialState() StakingState {
	return StakingState{
		AllValidators:  []string{},
		Accounts:       []StakingAccount{},
		CurrentAccount: NewStakingAccount(""),
	}
}
