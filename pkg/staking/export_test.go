package staking

type (
	AmountArgs     = amountArgs
	AccountArgs    = accountArgs
	SelectPoolArgs = selectPoolArgs
)
