package diag

import (
	"io"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// 级别定义（字符串配置 → charm 级别）。
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

func parseLevel(s string) charmlog.Level {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case DebugLevel:
		return charmlog.DebugLevel
	case WarnLevel:
		return charmlog.WarnLevel
	case ErrorLevel:
		return charmlog.ErrorLevel
	default:
		return charmlog.InfoLevel
	}
}

// Logger: 最小结构化日志器。输出目的地可注入（缺省 stderr），
// 便于测试对告警内容做断言而无需截获真实输出流。
// 每次运行携带 corr_id（关联同一调用的全部日志行）。
// nil 安全：所有方法对 nil 接收者均为 no-op。
type Logger struct {
	cl     *charmlog.Logger
	corrID string
}

// NewLogger 构造日志器。w 为 nil 时写 stderr；level 非法时回落 info。
func NewLogger(w io.Writer, level string) *Logger {
	if w == nil {
		w = os.Stderr
	}
	corrID := uuid.NewString()
	cl := charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           parseLevel(level),
	})
	cl = cl.With("corr_id", corrID)
	return &Logger{cl: cl, corrID: corrID}
}

// CorrID 返回本次运行的关联 ID。
func (l *Logger) CorrID() string {
	if l == nil {
		return ""
	}
	return l.corrID
}

// Debug 记录调试事件；comp 为组件名（replacer/josa/spacing/pipeline 等）。
func (l *Logger) Debug(comp, msg string, keyvals ...any) {
	if l == nil || l.cl == nil {
		return
	}
	l.cl.Debug(msg, append([]any{"comp", comp}, keyvals...)...)
}

// Info 记录信息事件。
func (l *Logger) Info(comp, msg string, keyvals ...any) {
	if l == nil || l.cl == nil {
		return
	}
	l.cl.Info(msg, append([]any{"comp", comp}, keyvals...)...)
}

// Warn 记录告警事件（verbose 与并行冲突时在此可观测）。
func (l *Logger) Warn(comp, msg string, keyvals ...any) {
	if l == nil || l.cl == nil {
		return
	}
	l.cl.Warn(msg, append([]any{"comp", comp}, keyvals...)...)
}

// Error 记录错误事件；code 为 Classify 产出的分类码。
func (l *Logger) Error(comp string, code Code, msg string, keyvals ...any) {
	if l == nil || l.cl == nil {
		return
	}
	l.cl.Error(msg, append([]any{"comp", comp, "code", string(code)}, keyvals...)...)
}
