package rpc

// JSON-RPC methods and helper (indexer) paths used by stakex.
// Keep every remote name here so a node or helper upgrade is a one-file change.

const (
	methodQuery             = "query"
	methodBroadcastTxCommit = "broadcast_tx_commit"
	methodValidators        = "validators"

	requestViewAccount   = "view_account"
	requestViewAccessKey = "view_access_key"
	requestCallFunction  = "call_function"

	finalityFinal      = "final"
	finalityOptimistic = "optimistic"

	stakingDepositsPath = "/staking-deposits/"
)
