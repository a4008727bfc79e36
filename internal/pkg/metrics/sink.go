package metrics

import (
	"math"
	"sync/atomic"
)

// Stats is a point-in-time view of the turn counters.
type Stats struct {
	Chats        int64   `json:"num_chats"`
	LLMCalls     int64   `json:"llm_calls"`
	CacheHits    int64   `json:"cache_hit"`
	CacheMisses  int64   `json:"cache_miss"`
	TotalLatency float64 `json:"total_latency"`
}

// Sink receives per-turn counters from concurrent request handlers. The chat
// service only ever talks to this interface, never to shared globals.
type Sink interface {
	IncrChats()
	IncrLLMCalls()
	IncrCacheHit()
	IncrCacheMiss()
	AddLatency(seconds float64)
	Snapshot() Stats
}

// AtomicSink is an in-process Sink backed by atomic counters.
type AtomicSink struct {
	chats       atomic.Int64
	llmCalls    atomic.Int64
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
	latencyBits atomic.Uint64 // float64 bits, CAS loop on add
}

func NewAtomicSink() *AtomicSink {
	return &AtomicSink{}
}

func (s *AtomicSink) IncrChats()     { s.chats.Add(1) }
func (s *AtomicSink) IncrLLMCalls()  { s.llmCalls.Add(1) }
func (s *AtomicSink) IncrCacheHit()  { s.cacheHits.Add(1) }
func (s *AtomicSink) IncrCacheMiss() { s.cacheMisses.Add(1) }

func (s *AtomicSink) AddLatency(seconds float64) {
	for {
		old := s.latencyBits.Load()
		next := math.Float64bits(math.Float64frombits(old) + seconds)
		if s.latencyBits.CompareAndSwap(old, next) {
			return
		}
	}
}

func (s *AtomicSink) Snapshot() Stats {
	return Stats{
		Chats:        s.chats.Load(),
		LLMCalls:     s.llmCalls.Load(),
		CacheHits:    s.cacheHits.Load(),
		CacheMisses:  s.cacheMisses.Load(),
		TotalLatency: math.Float64frombits(s.latencyBits.Load()),
	}
}
