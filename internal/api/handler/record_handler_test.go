package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"stageflow/internal/api/middleware"
	"stageflow/internal/dto"
	"stageflow/internal/service"
)

// stubRecordService records the last call and returns canned results.
type stubRecordService struct {
	createPos int
	err       error

	lastActor    string
	lastPosition int
}

func (s *stubRecordService) Create(_ context.Context, _ *dto.RecordPayload, actorEmail string) (int, error) {
	s.lastActor = actorEmail
	return s.createPos, s.err
}

func (s *stubRecordService) Update(_ context.Context, position int, _ *dto.RecordPayload, actorEmail string) error {
	s.lastActor = actorEmail
	s.lastPosition = position
	return s.err
}

func (s *stubRecordService) Delete(_ context.Context, position int, actorEmail string) error {
	s.lastActor = actorEmail
	s.lastPosition = position
	return s.err
}

func (s *stubRecordService) List(_ context.Context, _ *dto.RecordListRequest) ([]dto.RecordResponse, int64, error) {
	return nil, 0, s.err
}

// newRecordRouter wires the handler behind a stub of the auth middleware
// that injects a fixed identity.
func newRecordRouter(svc service.RecordService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.CtxEmail, "ana@example.com")
		c.Set(middleware.CtxAccountID, "acc-1")
		c.Next()
	})
	h := NewRecordHandler(svc)
	r.POST("/records", h.Create)
	r.PUT("/records/:position", h.Update)
	r.DELETE("/records/:position", h.Delete)
	return r
}

func TestCreateRecordReturnsPosition(t *testing.T) {
	svc := &stubRecordService{createPos: 7}
	r := newRecordRouter(svc)

	body, _ := json.Marshal(dto.RecordPayload{FullName: "Ana Puig", TotalHours: 120})
	req := httptest.NewRequest(http.MethodPost, "/records", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}
	if svc.lastActor != "ana@example.com" {
		t.Errorf("actor = %q, want the authenticated email", svc.lastActor)
	}

	var resp struct {
		Code int                      `json:"code"`
		Data dto.CreateRecordResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if resp.Code != 0 || resp.Data.Position != 7 {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestUpdateRecordParsesPosition(t *testing.T) {
	svc := &stubRecordService{}
	r := newRecordRouter(svc)

	body, _ := json.Marshal(dto.RecordPayload{FullName: "Edited"})
	req := httptest.NewRequest(http.MethodPut, "/records/3", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if svc.lastPosition != 3 {
		t.Errorf("position = %d, want 3", svc.lastPosition)
	}
}

func TestUpdateRecordRejectsBadPosition(t *testing.T) {
	r := newRecordRouter(&stubRecordService{})

	req := httptest.NewRequest(http.MethodPut, "/records/abc", bytes.NewReader([]byte("{}")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestDeleteRecordMapsRowNotFound(t *testing.T) {
	svc := &stubRecordService{err: service.ErrRowNotFound}
	r := newRecordRouter(svc)

	req := httptest.NewRequest(http.MethodDelete, "/records/99", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Code int `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if resp.Code != 12001 {
		t.Errorf("code = %d, want 12001", resp.Code)
	}
}

func TestDeleteRecordMapsForbidden(t *testing.T) {
	svc := &stubRecordService{err: service.ErrForbidden}
	r := newRecordRouter(svc)

	req := httptest.NewRequest(http.MethodDelete, "/records/2", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestCreateRecordRequiresIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewRecordHandler(&stubRecordService{})
	r.POST("/records", h.Create) // no identity middleware

	req := httptest.NewRequest(http.MethodPost, "/records", bytes.NewReader([]byte("{}")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}
