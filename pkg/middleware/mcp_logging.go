// Package middleware provides HTTP middleware for the streamable HTTP
// transport: request logging and MCP JSON-RPC call logging.
package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ekaya-inc/honeycomb-mcp/pkg/logging"
)

// maxLoggedValueLength truncates long argument values in logs.
const maxLoggedValueLength = 200

// MCPRequestLogger returns middleware that logs MCP JSON-RPC requests and
// responses flowing over the HTTP transport. Each request gets a uuid so
// the request and response lines can be correlated. Pass nil logger to
// disable logging.
func MCPRequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if logger == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bodyBytes, err := io.ReadAll(r.Body)
			if err != nil {
				logger.Error("failed to read MCP request body", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			r.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

			// Not every request carries a JSON-RPC body (e.g. GET for the
			// event stream), so a parse failure is not an error.
			var rpcReq jsonRPCRequest
			if err := json.Unmarshal(bodyBytes, &rpcReq); err != nil {
				logger.Debug("non-JSON-RPC MCP request", zap.String("method", r.Method))
			}

			requestID := uuid.NewString()

			logger.Debug("MCP request",
				zap.String("request_id", requestID),
				zap.String("method", rpcReq.Method),
				zap.String("tool", rpcReq.Params.Name),
				zap.Any("arguments", sanitizeArguments(rpcReq.Params.Arguments)),
			)

			recorder := &mcpResponseRecorder{
				ResponseWriter: w,
				body:           &bytes.Buffer{},
			}
			start := time.Now()

			next.ServeHTTP(recorder, r)

			duration := time.Since(start)

			var rpcResp jsonRPCResponse
			if err := json.Unmarshal(recorder.body.Bytes(), &rpcResp); err != nil {
				logger.Debug("MCP response not parseable",
					zap.String("request_id", requestID),
					zap.Duration("duration", duration))
				return
			}

			if rpcResp.Error != nil {
				logger.Debug("MCP response error",
					zap.String("request_id", requestID),
					zap.String("tool", rpcReq.Params.Name),
					zap.Int("error_code", rpcResp.Error.Code),
					zap.String("error_message", logging.Sanitize(rpcResp.Error.Message)),
					zap.Duration("duration", duration),
				)
				return
			}

			logger.Debug("MCP response success",
				zap.String("request_id", requestID),
				zap.String("tool", rpcReq.Params.Name),
				zap.Duration("duration", duration),
			)
		})
	}
}

// jsonRPCRequest is the subset of a tools/call request the logger reads.
type jsonRPCRequest struct {
	Method string `json:"method"`
	Params struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	} `json:"params"`
}

// jsonRPCResponse is the subset of a JSON-RPC response the logger reads.
type jsonRPCResponse struct {
	Result any           `json:"result"`
	Error  *jsonRPCError `json:"error"`
}

type jsonRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// mcpResponseRecorder captures the response body while writing it through.
type mcpResponseRecorder struct {
	http.ResponseWriter
	body *bytes.Buffer
}

func (r *mcpResponseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

// sensitiveArgKeywords marks argument keys whose values never reach logs.
var sensitiveArgKeywords = []string{"password", "secret", "token", "key", "credential"}

// sanitizeArguments redacts sensitive argument values, scrubs API keys out
// of string values, and truncates long ones.
func sanitizeArguments(args map[string]any) map[string]any {
	if args == nil {
		return nil
	}

	result := make(map[string]any, len(args))
	for k, v := range args {
		lowerKey := strings.ToLower(k)
		sensitive := false
		for _, keyword := range sensitiveArgKeywords {
			if strings.Contains(lowerKey, keyword) {
				sensitive = true
				break
			}
		}
		if sensitive {
			result[k] = logging.RedactedText
			continue
		}

		if str, ok := v.(string); ok {
			str = logging.Sanitize(str)
			if len(str) > maxLoggedValueLength {
				str = str[:maxLoggedValueLength] + "..."
			}
			result[k] = str
			continue
		}
		result[k] = v
	}
	return result
}
