// Package socialnet implements the Social Network Manager: the scheduled
// six-phase round, stochastic social events, community lifecycle and trend
// tracking that sit atop the Neural Web and the cohort (component F of the
// core).
package socialnet

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/lore-na/genesis-core/agent"
	"github.com/lore-na/genesis-core/dna"
	"github.com/lore-na/genesis-core/population"
	"github.com/lore-na/genesis-core/simconfig"
	"github.com/lore-na/genesis-core/socialgraph"
)

// maxEventLog bounds the in-memory event log, mirroring the 1000-entry
// trim the original Python applies on save.
const maxEventLog = 1000

// recentWindowTicks is the window size, in the web's logical tick units,
// used wherever the spec names a wall-clock recency window ("within 7
// days", "recent hour"). The core has no wall-clock concept (§5), so both
// windows are read against the same per-round tick counter; 1 tick is
// advanced per round.
const recentWindowTicks = 7

// Manager drives scheduled rounds against a population and its Neural Web,
// owning the community registry, event log and trend map.
type Manager struct {
	rng  *rand.Rand
	cfg  simconfig.Config
	pop  *population.Manager
	web  *socialgraph.Web
	sink population.Sink

	communities map[string]*Community
	events      []SocialEvent
	eventNext   int
	eventFull   bool

	trends map[string]float64
	round  int64
	boost  *universeBoost
}

// NewManager wires a Social Network Manager over an already-populated
// Manager and Neural Web. A nil sink defaults to population.NoopSink.
func NewManager(cfg simconfig.Config, pop *population.Manager, web *socialgraph.Web, sink population.Sink) *Manager {
	if sink == nil {
		sink = population.NoopSink{}
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Manager{
		rng:         rand.New(rand.NewSource(seed)),
		cfg:         cfg,
		pop:         pop,
		web:         web,
		sink:        sink,
		communities: map[string]*Community{},
		events:      make([]SocialEvent, maxEventLog),
		trends:      map[string]float64{},
	}
}

func (m *Manager) cohortIDs() []string {
	agents := m.pop.Agents()
	ids := make([]string, 0, len(agents))
	for id := range agents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// RunRound executes the six ordered phases of one simulation round.
func (m *Manager) RunRound() {
	m.round = m.web.Tick()
	agents := m.pop.Agents()
	ids := m.cohortIDs()

	m.discoveryPhase(ids, agents)
	m.maintenancePhase(ids, agents)
	m.influencePhase(ids, agents)
	m.eventPhase(agents)
	m.communityPhase(agents)
	m.trendPhase(ids, agents)

	if m.boost != nil {
		m.boost.remaining--
		if m.boost.remaining <= 0 {
			m.boost = nil
		}
	}
}

// RunRounds executes n rounds in sequence.
func (m *Manager) RunRounds(n int) {
	for i := 0; i < n; i++ {
		m.RunRound()
	}
}

func (m *Manager) discoveryPhase(ids []string, agents map[string]*agent.Agent) {
	for _, id := range ids {
		a := agents[id]
		prob := 0.3*a.WorkingTrait(dna.Ritual, "community_bonding") + 0.2*a.WorkingTrait(dna.Odyssey, "experimentation")
		if m.boost != nil {
			prob += m.boost.magnitude
		}
		if m.rng.Float64() >= prob {
			continue
		}
		candidates := agent.DiscoverCandidates(m.rng, id, agents, m.web)
		limit := 2
		if len(candidates) < limit {
			limit = len(candidates)
		}
		for i := 0; i < limit; i++ {
			_ = agent.InitiateConnection(m.rng, int(m.round), id, candidates[i].OtherID, agents, m.web)
		}
	}
}

func (m *Manager) maintenancePhase(ids []string, agents map[string]*agent.Agent) {
	for _, id := range ids {
		agent.MaintainRelationships(m.rng, int(m.round), id, agents, m.web)
	}
}

func (m *Manager) influencePhase(ids []string, agents map[string]*agent.Agent) {
	for _, id := range ids {
		a := agents[id]
		if a.WorkingTrait(dna.Ritual, "leadership_tendency") <= 0.6 {
			continue
		}
		agent.InfluenceNetwork(m.rng, int(m.round), id, agents, m.web)
	}
}

func (m *Manager) eventPhase(agents map[string]*agent.Agent) {
	if m.rng.Float64() >= m.cfg.EventProbability {
		return
	}
	kind := eventKinds[m.rng.Intn(len(eventKinds))]
	pool := candidateParticipants(kind, agents)
	participants := sampleUpTo(m.rng, pool, sampleSizeFor(kind))
	intensity := intensityOf(participants, m.web)
	effects, boost, description := applyEffects(kind, participants, intensity, agents, m.web, m.rng)
	if boost != nil {
		m.boost = boost
	}

	event := SocialEvent{
		EventID:      fmt.Sprintf("evt_%d", m.round),
		Kind:         kind,
		Timestamp:    m.round,
		Participants: participants,
		ImpactRadius: len(participants),
		Intensity:    intensity,
		Effects:      effects,
		Description:  description,
	}
	m.appendEvent(event)
	_ = m.sink.SaveEvent(string(kind), effects, participants)
}

func (m *Manager) appendEvent(e SocialEvent) {
	m.events[m.eventNext] = e
	m.eventNext = (m.eventNext + 1) % maxEventLog
	if m.eventNext == 0 {
		m.eventFull = true
	}
}

func (m *Manager) communityPhase(agents map[string]*agent.Agent) {
	detected := m.web.DetectCommunities()
	sizes := socialgraph.LargestCommunitySizes(detected)
	m.web.UpdateSocialMetrics(sizes)

	seen := map[string]bool{}
	next := map[string]*Community{}

	for id, members := range detected {
		sort.Strings(members)
		key := membersKey(members)
		seen[key] = true

		if existing := m.findByMembership(key); existing != nil {
			existing.Members = members
			existing.Cohesion = cohesion(members, m.web)
			existing.ActivityLevel = activityLevel(members, m.web, m.round)
			if m.rng.Float64() < 0.1 {
				existing.Leader = electLeader(members, agents, m.web)
			}
			next[id] = existing
			continue
		}

		values := sharedValues(members, agents)
		c := &Community{
			ID:              id,
			Members:         members,
			Leader:          electLeader(members, agents, m.web),
			Cohesion:        cohesion(members, m.web),
			ActivityLevel:   activityLevel(members, m.web, m.round),
			FormationTime:   m.round,
			SharedValues:    values,
			CollectiveGoals: collectiveGoals(members, agents, values),
		}
		next[id] = c
	}
	m.communities = next
}

func (m *Manager) findByMembership(key string) *Community {
	for _, c := range m.communities {
		if membersKey(c.Members) == key {
			return c
		}
	}
	return nil
}

func (m *Manager) trendPhase(ids []string, agents map[string]*agent.Agent) {
	edgeTypeCounts := map[socialgraph.ConnectionType]int{}
	archetypeCounts := map[agent.Archetype]int{}
	var totalEdges int

	for _, id := range ids {
		for _, e := range m.web.ConnectionsOf(id) {
			edgeTypeCounts[e.Type]++
			totalEdges++
		}
		archetypeCounts[agents[id].Archetype]++
	}

	observation := map[string]float64{}
	for t, count := range edgeTypeCounts {
		if totalEdges > 0 {
			observation["edge_type_"+string(t)] = float64(count) / float64(totalEdges)
		}
	}
	for a, count := range archetypeCounts {
		if len(ids) > 0 {
			observation["archetype_"+string(a)] = float64(count) / float64(len(ids))
		}
	}

	var recentParticipants int
	for _, e := range m.eventsInWindow(recentWindowTicks) {
		recentParticipants += len(e.Participants)
	}
	if len(ids) > 0 {
		observation["social_activity_level"] = float64(recentParticipants) / float64(len(ids))
	}

	for k, v := range observation {
		m.trends[k] = 0.8*m.trends[k] + 0.2*v
	}
}

func (m *Manager) eventsInWindow(window int64) []SocialEvent {
	var out []SocialEvent
	for _, e := range m.allEvents() {
		if m.round-e.Timestamp <= window {
			out = append(out, e)
		}
	}
	return out
}

func (m *Manager) allEvents() []SocialEvent {
	if !m.eventFull {
		return append([]SocialEvent(nil), m.events[:m.eventNext]...)
	}
	out := make([]SocialEvent, 0, maxEventLog)
	out = append(out, m.events[m.eventNext:]...)
	out = append(out, m.events[:m.eventNext]...)
	return out
}

// RecentEvents returns the most recent window entries (oldest first),
// or every logged entry if fewer than window exist.
func (m *Manager) RecentEvents(window int) []SocialEvent {
	all := m.allEvents()
	if window <= 0 || window >= len(all) {
		return all
	}
	return all[len(all)-window:]
}

// Trends returns the current EMA trend map.
func (m *Manager) Trends() map[string]float64 {
	out := make(map[string]float64, len(m.trends))
	for k, v := range m.trends {
		out[k] = v
	}
	return out
}

// Communities returns the current community registry.
func (m *Manager) Communities() map[string]*Community {
	out := make(map[string]*Community, len(m.communities))
	for k, v := range m.communities {
		out[k] = v
	}
	return out
}
