package population

import "github.com/lore-na/genesis-core/dna"

// IdentityRecord is the opaque identity the external name generator
// produces from (agent_id, personality_archetype, genes). The core reads
// only the fields named here; it never mutates an identity.
type IdentityRecord struct {
	AgentID              string
	PersonalityArchetype string
	DisplayName          string
}

// NameGenerator is the external collaborator that turns a genome into a
// display identity. The core treats its output as opaque beyond the
// fields of IdentityRecord.
type NameGenerator interface {
	Generate(agentID, archetype string, genome dna.Genome) IdentityRecord
}

// CohortEntry pairs an identity with its genome, as returned by
// Sink.LoadCohort and Manager.Cohort.
type CohortEntry struct {
	Identity IdentityRecord
	Genome   dna.Genome
}

// Sink is the persistence collaborator. The core requires exactly these
// four operations and assumes atomicity per call, never across calls.
type Sink interface {
	SaveAgent(identity IdentityRecord, genome dna.Genome, fitness dna.FitnessVector) error
	SaveGenerationStats(generation int, stats GenerationStats) error
	SaveEvent(kind string, payload map[string]any, participantIDs []string) error
	LoadCohort() ([]CohortEntry, error)
}

// NoopSink discards everything and reports an empty cohort; it is the
// default when a caller wires no persistence collaborator, matching the
// spec's requirement that persistence failure never blocks the round.
type NoopSink struct{}

func (NoopSink) SaveAgent(IdentityRecord, dna.Genome, dna.FitnessVector) error { return nil }
func (NoopSink) SaveGenerationStats(int, GenerationStats) error                { return nil }
func (NoopSink) SaveEvent(string, map[string]any, []string) error              { return nil }
func (NoopSink) LoadCohort() ([]CohortEntry, error)                            { return nil, nil }
