package main

import (
	"encoding/json"
	"net/http"
	"time"

	"creator-match-workers/internal/common/camunda"
	"creator-match-workers/internal/common/database"
)

// healthHandler reports 503 with the failing dependencies when any ping fails.
func healthHandler(deps map[string]database.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		failed := database.CheckAll(r.Context(), deps)

		checks := make(map[string]string, len(deps))
		for name := range deps {
			checks[name] = "ok"
		}
		for name, err := range failed {
			checks[name] = err.Error()
		}

		status, code := "healthy", http.StatusOK
		if len(failed) > 0 {
			status, code = "unhealthy", http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": status,
			"checks": checks,
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

func readyHandler(workers []*camunda.Worker) http.HandlerFunc {
	taskTypes := make([]string, 0, len(workers))
	for _, w := range workers {
		taskTypes = append(taskTypes, w.TaskType())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		code := http.StatusOK
		status := "ready"
		if len(taskTypes) == 0 {
			code, status = http.StatusServiceUnavailable, "no workers"
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  status,
			"workers": taskTypes,
		})
	}
}
