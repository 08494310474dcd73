package server

import "sort"

// registry is the set of peer identities whose ballot was recorded. Callers
// hold Server.mu.
type registry struct {
	peers map[string]struct{}
}

func newRegistry() *registry {
	return &registry{peers: make(map[string]struct{})}
}

func (r *registry) has(peer string) bool {
	_, ok := r.peers[peer]
	return ok
}

func (r *registry) insert(peer string) {
	r.peers[peer] = struct{}{}
}

func (r *registry) len() int {
	return len(r.peers)
}

func (r *registry) list() []string {
	peers := make([]string, 0, len(r.peers))
	for p := range r.peers {
		peers = append(peers, p)
	}
	sort.Strings(peers)

	return peers
}
