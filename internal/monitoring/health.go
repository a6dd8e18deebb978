// internal/monitoring/health.go
package monitoring

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"
)

// HealthStatus represents the health status of a component
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
	HealthStatusDegraded  HealthStatus = "degraded"
)

// HealthCheck is a named probe. A failing critical check makes the whole
// system unhealthy; other failures only degrade it.
type HealthCheck struct {
	Name     string
	Critical bool
	Timeout  time.Duration
	Check    func(ctx context.Context) error
}

// CheckResult is the outcome of one check
type CheckResult struct {
	Name     string        `json:"name"`
	Status   HealthStatus  `json:"status"`
	Error    string        `json:"error,omitempty"`
	Critical bool          `json:"critical"`
	Duration time.Duration `json:"duration"`
}

// SystemHealth represents overall system health information
type SystemHealth struct {
	Status     HealthStatus  `json:"status"`
	Timestamp  time.Time     `json:"timestamp"`
	Version    string        `json:"version,omitempty"`
	Uptime     time.Duration `json:"uptime"`
	Goroutines int           `json:"goroutines"`
	Checks     []CheckResult `json:"checks,omitempty"`
}

// HealthManager runs health checks on demand
type HealthManager struct {
	mu      sync.RWMutex
	checks  map[string]HealthCheck
	version string
	started time.Time
}

// NewHealthManager creates a new health manager
func NewHealthManager(version string) *HealthManager {
	return &HealthManager{
		checks:  make(map[string]HealthCheck),
		version: version,
		started: time.Now(),
	}
}

// RegisterCheck adds or replaces a check.
func (hm *HealthManager) RegisterCheck(check HealthCheck) {
	if check.Timeout == 0 {
		check.Timeout = 5 * time.Second
	}
	hm.mu.Lock()
	hm.checks[check.Name] = check
	hm.mu.Unlock()
}

// GetHealth runs every check concurrently and aggregates the results.
func (hm *HealthManager) GetHealth(ctx context.Context) SystemHealth {
	hm.mu.RLock()
	checks := make([]HealthCheck, 0, len(hm.checks))
	for _, c := range hm.checks {
		checks = append(checks, c)
	}
	hm.mu.RUnlock()

	results := make([]CheckResult, len(checks))
	var wg sync.WaitGroup
	for i, check := range checks {
		wg.Add(1)
		go func(i int, c HealthCheck) {
			defer wg.Done()
			results[i] = runCheck(ctx, c)
		}(i, check)
	}
	wg.Wait()
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })

	status := HealthStatusHealthy
	for _, r := range results {
		if r.Status == HealthStatusHealthy {
			continue
		}
		if r.Critical {
			status = HealthStatusUnhealthy
			break
		}
		status = HealthStatusDegraded
	}
	return SystemHealth{
		Status:     status,
		Timestamp:  time.Now(),
		Version:    hm.version,
		Uptime:     time.Since(hm.started),
		Goroutines: runtime.NumGoroutine(),
		Checks:     results,
	}
}

func runCheck(ctx context.Context, c HealthCheck) CheckResult {
	start := time.Now()
	checkCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	res := CheckResult{Name: c.Name, Critical: c.Critical, Status: HealthStatusHealthy}
	if err := c.Check(checkCtx); err != nil {
		res.Error = err.Error()
		res.Status = HealthStatusDegraded
		if c.Critical {
			res.Status = HealthStatusUnhealthy
		}
	}
	res.Duration = time.Since(start)
	return res
}

// HealthHandler serves GetHealth as JSON, with 503 when unhealthy
func (hm *HealthManager) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := hm.GetHealth(r.Context())

		w.Header().Set("Content-Type", "application/json")
		if health.Status == HealthStatusUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		json.NewEncoder(w).Encode(health)
	}
}

// DirectoryHealthCheck verifies that a directory exists and is readable.
func DirectoryHealthCheck(name, path string) HealthCheck {
	return HealthCheck{
		Name:     name,
		Critical: true,
		Check: func(context.Context) error {
			info, err := os.Stat(path)
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", path)
			}
			return nil
		},
	}
}

// HTTPHealthCheck probes url, for example a WebDriver /status endpoint.
func HTTPHealthCheck(name, url string, critical bool) HealthCheck {
	return HealthCheck{
		Name:     name,
		Critical: critical,
		Check: func(ctx context.Context) error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return err
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			resp.Body.Close()
			if resp.StatusCode >= 400 {
				return fmt.Errorf("HTTP %d", resp.StatusCode)
			}
			return nil
		},
	}
}

// GoroutineHealthCheck degrades when more than max goroutines run.
func GoroutineHealthCheck(max int) HealthCheck {
	return HealthCheck{
		Name: "goroutines",
		Check: func(context.Context) error {
			if n := runtime.NumGoroutine(); n > max {
				return fmt.Errorf("%d goroutines (max %d)", n, max)
			}
			return nil
		},
	}
}
