package utils

// StakingStepsChannel is the Pub/Sub channel staking step events are published on.
const StakingStepsChannel = "staking.steps"
