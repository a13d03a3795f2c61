// Package httpapi is the presentation boundary over the core: it owns
// session handling and role enforcement so that admin-only operations are
// rejected before any store call. The core services do not re-check roles.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/medtrack/bp-monitor/internal/services"
)

type Server struct {
	patients     *services.PatientService
	caregivers   *services.CaregiverService
	measurements *services.MeasurementService
	auth         *services.AuthService
}

func NewServer(patients *services.PatientService, caregivers *services.CaregiverService, measurements *services.MeasurementService, auth *services.AuthService) *Server {
	return &Server{
		patients:     patients,
		caregivers:   caregivers,
		measurements: measurements,
		auth:         auth,
	}
}

// Router builds the HTTP handler tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Post("/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.sessionContext)

		r.Post("/logout", s.handleLogout)
		r.Get("/patients", s.handleListPatients)
		r.Get("/patients/{id}/measurements", s.handleListMeasurements)
		r.Get("/patients/{id}/status", s.handlePatientStatus)
		r.Post("/measurements", s.handleAddMeasurement)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)

			r.Post("/patients", s.handleAddPatient)
			r.Post("/caregivers", s.handleAddCaregiver)
			r.Get("/caregivers", s.handleListCaregivers)
		})
	})

	return r
}
