package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/iabetor/duotts/internal/logger"
	"github.com/iabetor/duotts/internal/pipeline"
)

// Server 是核心流水线之上的薄 HTTP 适配层。
type Server struct {
	orch *pipeline.Orchestrator
	srv  *http.Server
}

// New 创建 HTTP 服务。
func New(addr string, orch *pipeline.Orchestrator) *Server {
	s := &Server{orch: orch}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /tts", s.handleTTS)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Run 启动服务并在 ctx 取消时优雅关闭。
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("[server] 监听 %s", s.srv.Addr)
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// ttsRequest POST /tts 的请求体。
type ttsRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

// handleTTS 把文本合成为一个 MP3 并以 audio/mpeg 返回。
func (s *Server) handleTTS(w http.ResponseWriter, r *http.Request) {
	var req ttsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "请求体不是有效的 JSON")
		return
	}
	if req.Voice == "" {
		req.Voice = "male"
	}

	result, err := s.orch.Run(r.Context(), req.Text, req.Voice)
	if err != nil {
		logger.Errorf("[server] 合成请求失败: %v", err)
		switch {
		case errors.Is(err, pipeline.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, pipeline.ErrNoSegments):
			writeError(w, http.StatusBadRequest, "没有可朗读的内容")
		case errors.Is(err, context.Canceled):
			// 客户端已断开，响应写不出去，只记录
		default:
			writeError(w, http.StatusInternalServerError, "语音合成失败")
		}
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("X-Segment-Count", strconv.Itoa(result.Segments))
	if _, err := w.Write(result.Audio); err != nil {
		logger.Warnf("[server] 写响应失败: %v", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
