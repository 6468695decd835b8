// Package socialgraph implements the Neural Web: the dynamic weighted
// social graph of typed directed edges between agents, its community
// detection, and its per-agent social metrics (component C of the core).
package socialgraph

import (
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/lore-na/genesis-core/dna"
	"github.com/lore-na/genesis-core/simerr"
)

// ConnectionType is one of the seven closed edge-type variants.
type ConnectionType string

const (
	Mentor       ConnectionType = "mentor"
	Competitor   ConnectionType = "competitor"
	Collaborator ConnectionType = "collaborator"
	Influencer   ConnectionType = "influencer"
	Follower     ConnectionType = "follower"
	Friend       ConnectionType = "friend"
	Enemy        ConnectionType = "enemy"
)

var typeModifier = map[ConnectionType]float64{
	Mentor:       0.8,
	Collaborator: 0.9,
	Friend:       0.7,
	Influencer:   0.6,
	Follower:     0.5,
	Competitor:   0.4,
	Enemy:        0.2,
}

var reciprocalType = map[ConnectionType]ConnectionType{
	Mentor:       Follower,
	Collaborator: Collaborator,
	Friend:       Friend,
	Influencer:   Follower,
	Follower:     Influencer,
	Competitor:   Competitor,
	Enemy:        Enemy,
}

// Reciprocal returns the edge type the pair edge must carry.
func Reciprocal(t ConnectionType) ConnectionType {
	if r, ok := reciprocalType[t]; ok {
		return r
	}
	return Friend
}

// allowedKinds lists the interaction kinds a maintain_relationships call
// may draw from uniformly for a given edge type.
var allowedKinds = map[ConnectionType][]string{
	Mentor:       {"mentoring", "advice_giving", "guidance"},
	Collaborator: {"collaboration", "information_sharing", "joint_planning"},
	Friend:       {"casual_chat", "emotional_support", "shared_activity"},
	Competitor:   {"competitive_challenge", "performance_comparison", "rivalry"},
	Influencer:   {"influence_attempt", "trend_sharing", "opinion_leadership"},
	Follower:     {"seeking_guidance", "mimicking_behavior", "approval_seeking"},
	Enemy:        {"conflict", "confrontation", "undermining"},
}

// AllowedKinds returns the interaction kinds permitted on an edge of type t.
func AllowedKinds(t ConnectionType) []string {
	return allowedKinds[t]
}

var strengthDelta = map[string]float64{
	"positive_feedback": 0.05,
	"collaboration":     0.03,
	"negative_feedback": -0.05,
	"conflict":          -0.08,
}

// Connection is a directed, typed, weighted edge between two agents.
type Connection struct {
	Source            string
	Target            string
	Type              ConnectionType
	Strength          float64
	CreatedAt         int64
	LastInteraction   int64
	InteractionCount  int
	SharedExperiences []string
	InfluenceHistory  []InfluenceRecord
}

// InfluenceRecord is one entry in an edge's influence_history log.
type InfluenceRecord struct {
	Timestamp int64
	Kind      string
	Payload   map[string]any
}

// SocialMetrics is the per-agent metrics record recomputed every round.
type SocialMetrics struct {
	Centrality        float64
	InfluenceScore    float64
	Popularity        float64
	TrustRating       float64
	CommunityStanding float64
}

// Web owns the edge table and per-agent social metrics. All graph mutation
// routes through its methods so the single-simulation-loop ownership rule
// (§5) holds regardless of caller concurrency.
type Web struct {
	mu      sync.RWMutex
	agents  map[string]struct{}
	edges   map[string]map[string]*Connection // source -> target -> edge
	metrics map[string]SocialMetrics
	clock   int64
}

// New returns an empty Neural Web.
func New() *Web {
	return &Web{
		agents:  make(map[string]struct{}),
		edges:   make(map[string]map[string]*Connection),
		metrics: make(map[string]SocialMetrics),
	}
}

// Tick advances the web's internal logical clock, used to timestamp edges
// and interactions without depending on wall time (keeps evolution runs
// reproducible independent of real elapsed time).
func (w *Web) Tick() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.clock++
	return w.clock
}

func (w *Web) now() int64 {
	return w.clock
}

// Register ensures agentID has an entry in the graph. It is a no-op if the
// agent is already known.
func (w *Web) Register(agentID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.register(agentID)
}

func (w *Web) register(agentID string) {
	if _, ok := w.agents[agentID]; ok {
		return
	}
	w.agents[agentID] = struct{}{}
	w.edges[agentID] = make(map[string]*Connection)
	w.metrics[agentID] = SocialMetrics{}
}

// Compatibility computes the genetic-compatibility score over the union of
// numeric traits present in both genomes across all five domains:
// mean(1 - |g1 - g2|), in [0,1]. Symmetric by construction.
func Compatibility(a, b dna.Genome) float64 {
	var sum float64
	var count int
	for _, d := range dna.Domains {
		ga, okA := a.DomainGenes[d]
		gb, okB := b.DomainGenes[d]
		if !okA || !okB {
			continue
		}
		for trait, va := range ga.Traits {
			vb, ok := gb.Traits[trait]
			if !ok {
				continue
			}
			sum += 1 - math.Abs(va-vb)
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func leadership(g dna.Genome) float64 {
	v, _ := g.Trait(dna.Ritual, "leadership_tendency")
	return v
}

func competitiveness(g dna.Genome) float64 {
	v, _ := g.Trait(dna.Limbo, "risk_tolerance")
	return v
}

// decideType implements the spec's compatibility/personality decision tree
// for an unsupplied connection type.
func decideType(rng *rand.Rand, source, target dna.Genome, compatibility float64) ConnectionType {
	switch {
	case compatibility > 0.8:
		if leadership(source) > leadership(target) {
			return Mentor
		}
		return Collaborator
	case compatibility > 0.6:
		return Friend
	case compatibility > 0.4:
		if competitiveness(source) > 0.7 {
			return Competitor
		}
		return Follower
	default:
		if rng.Float64() < 0.3 {
			return Enemy
		}
		return Competitor
	}
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// CreateConnection creates source->target and its reciprocal target->source
// edge. Self-edges are rejected silently (returns *simerr.Error of kind
// SelfConnection); an existing source->target edge is returned untouched
// (kind DuplicateConnection, idempotent).
func (w *Web) CreateConnection(rng *rand.Rand, source, target string, sourceDNA, targetDNA dna.Genome, connType *ConnectionType) (*Connection, error) {
	if source == target {
		return nil, simerr.New(simerr.SelfConnection, "cannot connect agent to itself")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.register(source)
	w.register(target)

	if existing, ok := w.edges[source][target]; ok {
		return existing, simerr.New(simerr.DuplicateConnection, "edge already exists")
	}

	compat := Compatibility(sourceDNA, targetDNA)
	t := Follower
	if connType != nil {
		t = *connType
	} else {
		t = decideType(rng, sourceDNA, targetDNA, compat)
	}

	noise := rng.Float64()*0.2 - 0.1 // U[-0.1, 0.1]
	strength := clampUnit(compat*typeModifier[t] + noise)

	now := w.now()
	fwd := &Connection{
		Source: source, Target: target, Type: t, Strength: strength,
		CreatedAt: now, LastInteraction: now,
	}
	rev := &Connection{
		Source: target, Target: source, Type: Reciprocal(t), Strength: strength,
		CreatedAt: now, LastInteraction: now,
	}
	w.edges[source][target] = fwd
	w.edges[target][source] = rev
	return fwd, nil
}

// Connection returns the source->target edge, or nil if none exists.
func (w *Web) Connection(source, target string) *Connection {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.edges[source][target]
}

// ConnectionsOf returns every outgoing edge from agentID, in no particular
// order.
func (w *Web) ConnectionsOf(agentID string) []Connection {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]Connection, 0, len(w.edges[agentID]))
	for _, c := range w.edges[agentID] {
		out = append(out, *c)
	}
	return out
}

// Interact applies a kind-dependent strength delta to the named
// source->target edge, recording the interaction. Fails (returns false) if
// no such edge exists; the reciprocal edge is left untouched, to be updated
// when its own owner acts.
func (w *Web) Interact(source, target, kind string, payload map[string]any) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	edge, ok := w.edges[source][target]
	if !ok {
		return false
	}

	now := w.now()
	edge.LastInteraction = now
	edge.InteractionCount++
	edge.SharedExperiences = append(edge.SharedExperiences, kind)
	edge.InfluenceHistory = append(edge.InfluenceHistory, InfluenceRecord{
		Timestamp: now, Kind: kind, Payload: payload,
	})

	delta := strengthDelta[kind]
	if kind == "trade" {
		success := true
		if v, ok := payload["success"].(bool); ok {
			success = v
		}
		if success {
			delta = 0.02
		} else {
			delta = -0.02
		}
	}
	edge.Strength = clampUnit(edge.Strength + delta)
	return true
}

// InfluenceReach does a depth-bounded traversal from source over outgoing
// mentor/influencer edges, attenuating strength by 0.8*edge.strength per
// hop and pruning strictly below 0.1. Each node is visited once
// (first-visit wins): a higher-strength path discovered later does not
// overwrite an already-recorded value.
func (w *Web) InfluenceReach(source string, maxDepth int) map[string]float64 {
	w.mu.RLock()
	defer w.mu.RUnlock()

	reach := map[string]float64{}
	visited := map[string]bool{}

	var explore func(agentID string, depth int, influence float64)
	explore = func(agentID string, depth int, influence float64) {
		if visited[agentID] {
			return
		}
		visited[agentID] = true
		reach[agentID] = influence

		if depth <= 0 {
			return
		}

		for _, edge := range w.edges[agentID] {
			if edge.Type != Mentor && edge.Type != Influencer {
				continue
			}
			next := influence * edge.Strength * 0.8
			if next < 0.1 {
				continue
			}
			explore(edge.Target, depth-1, next)
		}
	}
	explore(source, maxDepth, 1.0)
	return reach
}

// DetectCommunities runs the undirected DFS-variant: starting from any
// unvisited agent, it expands to peers reachable over an edge with
// strength > 0.5 and type != enemy. Each resulting component of size >= 2
// becomes a community, numbered sequentially in the stable iteration
// order of agent ids.
func (w *Web) DetectCommunities() map[string][]string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	agentIDs := make([]string, 0, len(w.agents))
	for id := range w.agents {
		agentIDs = append(agentIDs, id)
	}
	sort.Strings(agentIDs)

	visited := map[string]bool{}
	communities := map[string][]string{}
	communityIndex := 0

	for _, start := range agentIDs {
		if visited[start] {
			continue
		}
		component := w.exploreComponent(start, visited, agentIDs)
		if len(component) > 1 {
			sort.Strings(component)
			communities[communityID(communityIndex)] = component
			communityIndex++
		}
	}
	return communities
}

func communityID(i int) string {
	const base = "community_"
	digits := [...]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9'}
	if i < 10 {
		return base + string(digits[i])
	}
	// Fall back to a generic formatter for indices beyond single digits.
	var buf []byte
	for i > 0 {
		buf = append([]byte{digits[i%10]}, buf...)
		i /= 10
	}
	return base + string(buf)
}

func (w *Web) exploreComponent(start string, visited map[string]bool, order []string) []string {
	var component []string
	stack := []string{start}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[current] {
			continue
		}
		visited[current] = true
		component = append(component, current)

		targets := make([]string, 0, len(w.edges[current]))
		for t := range w.edges[current] {
			targets = append(targets, t)
		}
		sort.Strings(targets)
		for _, t := range targets {
			edge := w.edges[current][t]
			if edge.Strength > 0.5 && edge.Type != Enemy && !visited[t] {
				stack = append(stack, t)
			}
		}
	}
	return component
}

// UpdateSocialMetrics recomputes every agent's SocialMetrics as a pure
// function of the current graph. largestCommunity maps each agent to the
// size of the largest community it belongs to (0 if unassigned); callers
// obtain it from DetectCommunities.
func (w *Web) UpdateSocialMetrics(largestCommunity map[string]int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	numAgents := len(w.agents)
	incoming := make(map[string]int, numAgents)
	for _, targets := range w.edges {
		for target := range targets {
			incoming[target]++
		}
	}

	for agentID := range w.agents {
		edges := w.edges[agentID]

		var strengthSum float64
		var influenceSum float64
		var weightedInteractions float64
		var interactionSum float64
		for _, e := range edges {
			strengthSum += e.Strength
			if e.Type == Influencer || e.Type == Mentor {
				influenceSum += e.Strength
			}
			weightedInteractions += float64(e.InteractionCount) * e.Strength
			interactionSum += float64(e.InteractionCount)
		}

		centrality := 0.0
		if len(edges) > 0 {
			centrality = strengthSum / float64(len(edges))
		}

		trust := 0.0
		if interactionSum > 0 {
			trust = weightedInteractions / interactionSum
		}

		popularity := 0.0
		if numAgents > 0 {
			popularity = float64(incoming[agentID]) / float64(numAgents)
		}

		standing := 0.0
		if numAgents > 0 {
			standing = float64(largestCommunity[agentID]) / float64(numAgents)
		}

		w.metrics[agentID] = SocialMetrics{
			Centrality:        centrality,
			InfluenceScore:    influenceSum,
			Popularity:        popularity,
			TrustRating:       trust,
			CommunityStanding: standing,
		}
	}
}

// MetricsOf returns the most recently computed SocialMetrics for agentID.
func (w *Web) MetricsOf(agentID string) (SocialMetrics, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	m, ok := w.metrics[agentID]
	return m, ok
}

// LargestCommunitySizes derives, from a detection result, the size of the
// largest community each member agent belongs to — the input
// UpdateSocialMetrics needs for community_standing.
func LargestCommunitySizes(communities map[string][]string) map[string]int {
	sizes := map[string]int{}
	for _, members := range communities {
		for _, m := range members {
			if len(members) > sizes[m] {
				sizes[m] = len(members)
			}
		}
	}
	return sizes
}
