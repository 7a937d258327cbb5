package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	app "palm-bot/internal/application"
	"palm-bot/internal/domain/entity"
)

// multipartOverhead запас на заголовки multipart сверх лимита на фото
const multipartOverhead = 1 << 20

// Response represents the API response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Server HTTP-вход в мастер: одна сессия на UUID
type Server struct {
	wizard *app.WizardService
	logger *zap.Logger
}

func NewServer(wizard *app.WizardService, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{wizard: wizard, logger: logger}
}

// Router собирает маршруты API
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api/sessions").Subrouter()
	api.HandleFunc("", s.handleCreate).Methods(http.MethodPost)
	api.HandleFunc("/{id}", s.handleGet).Methods(http.MethodGet)
	api.HandleFunc("/{id}/image", s.handleUpload).Methods(http.MethodPost)
	api.HandleFunc("/{id}/fields/{field}", s.handleSetField).Methods(http.MethodPut)
	api.HandleFunc("/{id}/advance", s.transition(s.wizard.AdvanceToInfo)).Methods(http.MethodPost)
	api.HandleFunc("/{id}/back", s.transition(s.wizard.GoBack)).Methods(http.MethodPost)
	api.HandleFunc("/{id}/reading", s.transition(s.submitReading)).Methods(http.MethodPost)
	api.HandleFunc("/{id}/restart", s.transition(s.wizard.Restart)).Methods(http.MethodPost)

	return r
}

// Run слушает addr до отмены ctx, затем мягко останавливается
func (s *Server) Run(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       5 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting web server", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down web server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]string{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	state, err := s.wizard.Start(r.Context(), uuid.New().String())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("Session created", zap.String("session", state.ID))
	s.writeJSON(w, http.StatusCreated, Response{Success: true, Data: newStateView(state)})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	state, err := s.wizard.State(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, Response{Success: true, Data: newStateView(state)})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	r.Body = http.MaxBytesReader(w, r.Body, entity.MaxImageSize+multipartOverhead)
	if err := r.ParseMultipartForm(entity.MaxImageSize + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, entity.ErrImageTooLarge)
			return
		}
		s.logger.Warn("Failed to parse multipart form", zap.String("session", id), zap.Error(err))
		s.writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Please upload a valid image file"})
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Please upload a valid image file"})
		return
	}
	defer file.Close()

	img := entity.ImageRef{
		Name:     header.Filename,
		MIMEType: header.Header.Get("Content-Type"),
		Size:     header.Size,
	}
	// Размер и тип проверяем до чтения файла в память.
	if err := img.Validate(); err != nil {
		s.writeError(w, err)
		return
	}

	img.Data, err = io.ReadAll(io.LimitReader(file, entity.MaxImageSize+1))
	if err != nil {
		s.logger.Error("Failed to read uploaded image", zap.String("session", id), zap.Error(err))
		s.writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Please upload a valid image file"})
		return
	}

	state, err := s.wizard.UploadImage(r.Context(), id, img)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, Response{Success: true, Message: "Palm image uploaded successfully!", Data: newStateView(state)})
}

type fieldRequest struct {
	Value string `json:"value"`
}

func (s *Server) handleSetField(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	field, err := entity.ParseField(vars["field"])
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req fieldRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 64<<10)).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Invalid JSON body"})
		return
	}

	state, err := s.wizard.SetField(r.Context(), vars["id"], field, req.Value)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, Response{Success: true, Data: newStateView(state)})
}

// transition оборачивает переход мастера без тела запроса
func (s *Server) transition(op func(context.Context, string) (*entity.WizardState, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := op(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			s.writeError(w, err)
			return
		}
		resp := Response{Success: true, Data: newStateView(state)}
		if state.Step == entity.StepResult && state.Reading != nil {
			resp.Message = "Palm analysis completed successfully!"
		}
		s.writeJSON(w, http.StatusOK, resp)
	}
}

// submitReading запускает анализ вне контекста запроса: обрыв соединения
// не прерывает задержку, результат остаётся в сессии.
func (s *Server) submitReading(ctx context.Context, id string) (*entity.WizardState, error) {
	return s.wizard.SubmitForReading(context.WithoutCancel(ctx), id)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", zap.Error(err))
	}
	s.writeJSON(w, status, Response{Success: false, Message: entity.UserMessage(err)})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Warn("Failed to encode response", zap.Error(err))
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrMissingRequiredField),
		errors.Is(err, entity.ErrImageTooLarge),
		errors.Is(err, entity.ErrImageWrongType),
		errors.Is(err, entity.ErrUnknownField):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrInvalidTransition),
		errors.Is(err, entity.ErrNoImage),
		errors.Is(err, entity.ErrGenerationInProgress),
		errors.Is(err, entity.ErrGenerationDiscarded):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
