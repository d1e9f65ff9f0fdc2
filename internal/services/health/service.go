package health

import "docstore-backend/internal/index"

// Service encapsulates health-related checks.
type Service struct {
	Index *index.Client
}

// NewService constructs a new health service.
func NewService(idx *index.Client) *Service {
	return &Service{Index: idx}
}

// Status reports overall health plus search engine connectivity. The
// API stays "ok" while degraded; searchEngine tells the caller whether
// ranked queries will work.
func (s *Service) Status() map[string]string {
	engine := "disconnected"
	if s.Index != nil && s.Index.Ping() {
		engine = "connected"
	}
	return map[string]string{
		"status":       "ok",
		"searchEngine": engine,
	}
}
