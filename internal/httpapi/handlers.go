package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/medtrack/bp-monitor/internal/apperrors"
	"github.com/medtrack/bp-monitor/internal/diagnosis"
	"github.com/medtrack/bp-monitor/internal/domain"
	"github.com/medtrack/bp-monitor/internal/logger"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string      `json:"token"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := s.auth.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:    sess.Token,
		Username: sess.Username,
		Role:     sess.Role,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r.Header.Get("Authorization")); token != "" {
		s.auth.Logout(r.Context(), token)
	}
	w.WriteHeader(http.StatusNoContent)
}

type addPatientRequest struct {
	Name    string `json:"name"`
	Age     int    `json:"age"`
	History string `json:"history"`
}

func (s *Server) handleAddPatient(w http.ResponseWriter, r *http.Request) {
	var req addPatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	patient, err := s.patients.AddPatient(r.Context(), req.Name, req.Age, req.History)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, patient)
}

func (s *Server) handleListPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := s.patients.ListPatients(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, patients)
}

type addCaregiverRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

func (s *Server) handleAddCaregiver(w http.ResponseWriter, r *http.Request) {
	var req addCaregiverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	caregiver, err := s.caregivers.AddCaregiver(r.Context(), req.Name, req.Role)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, caregiver)
}

func (s *Server) handleListCaregivers(w http.ResponseWriter, r *http.Request) {
	caregivers, err := s.caregivers.ListCaregivers(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, caregivers)
}

type addMeasurementRequest struct {
	PatientID   uint      `json:"patient_id"`
	CaregiverID uint      `json:"caregiver_id,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	Systolic    int       `json:"systolic"`
	Diastolic   int       `json:"diastolic"`
}

func (s *Server) handleAddMeasurement(w http.ResponseWriter, r *http.Request) {
	var req addMeasurementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, _ := sessionFrom(r.Context())
	caregiverID := req.CaregiverID
	if !sess.IsAdmin() {
		// Caregivers always record under their own identity.
		caregiverID = sess.CaregiverID
	}
	if caregiverID == 0 {
		writeError(w, r, http.StatusBadRequest, "caregiver_id is required")
		return
	}

	measurement, err := s.measurements.AddMeasurement(r.Context(), req.PatientID, caregiverID, req.Timestamp, req.Systolic, req.Diastolic)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, measurement)
}

type measurementResponse struct {
	ID             uint               `json:"id"`
	PatientID      uint               `json:"patient_id"`
	CaregiverID    uint               `json:"caregiver_id"`
	Timestamp      time.Time          `json:"timestamp"`
	Systolic       int                `json:"systolic"`
	Diastolic      int                `json:"diastolic"`
	Category       diagnosis.Category `json:"category"`
	Recommendation string             `json:"recommendation"`
}

func toMeasurementResponse(m domain.Measurement) measurementResponse {
	category, recommendation := diagnosis.Classify(m.Systolic, m.Diastolic)
	return measurementResponse{
		ID:             m.ID,
		PatientID:      m.PatientID,
		CaregiverID:    m.CaregiverID,
		Timestamp:      m.Timestamp,
		Systolic:       m.Systolic,
		Diastolic:      m.Diastolic,
		Category:       category,
		Recommendation: recommendation,
	}
}

// handleListMeasurements returns a patient's history ascending by timestamp,
// scoped to the caller: administrators see every reading, caregivers only
// the ones they recorded.
func (s *Server) handleListMeasurements(w http.ResponseWriter, r *http.Request) {
	patientID, ok := patientIDParam(w, r)
	if !ok {
		return
	}

	sess, _ := sessionFrom(r.Context())
	var (
		measurements []domain.Measurement
		err          error
	)
	if sess.IsAdmin() {
		measurements, err = s.measurements.ListMeasurements(r.Context(), patientID)
	} else {
		measurements, err = s.measurements.ListMeasurementsByCaregiver(r.Context(), patientID, sess.CaregiverID)
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]measurementResponse, 0, len(measurements))
	for _, m := range measurements {
		out = append(out, toMeasurementResponse(m))
	}
	writeJSON(w, http.StatusOK, out)
}

type patientStatusResponse struct {
	PatientID uint                 `json:"patient_id"`
	Latest    *measurementResponse `json:"latest"`
}

// handlePatientStatus returns the most recent reading with its derived
// classification, or a null latest when the patient has no history.
func (s *Server) handlePatientStatus(w http.ResponseWriter, r *http.Request) {
	patientID, ok := patientIDParam(w, r)
	if !ok {
		return
	}

	if _, err := s.patients.GetPatient(r.Context(), patientID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	latest, err := s.measurements.LatestMeasurement(r.Context(), patientID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := patientStatusResponse{PatientID: patientID}
	if latest != nil {
		m := toMeasurementResponse(*latest)
		resp.Latest = &m
	}
	writeJSON(w, http.StatusOK, resp)
}

func patientIDParam(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid patient id")
		return 0, false
	}
	return uint(id), true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, _ *http.Request, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeServiceError maps the core error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		logger.Error("unhandled error", "error", err)
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	switch appErr.Type {
	case apperrors.ErrorTypeValidation:
		writeError(w, r, http.StatusBadRequest, appErr.Message)
	case apperrors.ErrorTypeAuth:
		writeError(w, r, http.StatusUnauthorized, appErr.Message)
	case apperrors.ErrorTypeReferential:
		writeError(w, r, http.StatusUnprocessableEntity, appErr.Message)
	case apperrors.ErrorTypeTransient:
		writeError(w, r, http.StatusServiceUnavailable, appErr.Message)
	default:
		logger.Error("service error", appErr.LogFields()...)
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
