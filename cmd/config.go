package cmd

import "time"

// Config carries everything the composition root needs to wire the engine.
// Populated from the environment by the entrypoint.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	AmqpURL    string

	// Engine knobs, with defaults applied by the entrypoint when unset.
	AssignmentGracePeriod time.Duration
	CandidateTimeout      time.Duration
	AssignmentPollEvery   time.Duration
	EscalationWait        time.Duration
	MaxCandidates         int
	RiderIncentiveStep    float64
	CompensationAmount    float64

	AdminContacts []string
}
