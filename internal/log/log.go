// Package log writes one JSON object per line through the standard logger,
// so main can redirect it to a file alongside stdout.
package log

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
)

type entry struct {
	TS     string `json:"ts"`
	Level  string `json:"level"`
	ReqID  string `json:"req_id,omitempty"`
	IP     string `json:"ip,omitempty"`
	Method string `json:"method,omitempty"`
	Path   string `json:"path,omitempty"`
	Action string `json:"action,omitempty"`
	Status int    `json:"status,omitempty"`

	// Floor references, lifted out of fields so the ledger of one table or
	// order can be grepped directly.
	TableID   string   `json:"table_id,omitempty"`
	SessionID string   `json:"session_id,omitempty"`
	OrderID   string   `json:"order_id,omitempty"`
	ItemID    string   `json:"item_id,omitempty"`
	Amount    *float64 `json:"amount,omitempty"`

	Err    string         `json:"err,omitempty"`
	Fields map[string]any `json:"fields,omitempty"`
}

// lift moves the floor references out of fields into e. The caller's map
// is not modified.
func (e *entry) lift(fields map[string]any) {
	if len(fields) == 0 {
		return
	}
	rest := make(map[string]any, len(fields))
	for k, v := range fields {
		s, isStr := v.(string)
		switch {
		case k == "table_id" && isStr:
			e.TableID = s
		case k == "session_id" && isStr:
			e.SessionID = s
		case k == "order_id" && isStr:
			e.OrderID = s
		case k == "item_id" && isStr:
			e.ItemID = s
		case k == "amount":
			if f, ok := v.(float64); ok {
				e.Amount = &f
				continue
			}
			rest[k] = v
		default:
			rest[k] = v
		}
	}
	if len(rest) > 0 {
		e.Fields = rest
	}
}

// c may be nil for background work (sync, queue).
func write(level string, c *fiber.Ctx, action string, err error, fields map[string]any) {
	e := entry{TS: time.Now().UTC().Format(time.RFC3339), Level: level, Action: action}
	e.lift(fields)
	if c != nil {
		e.IP = c.IP()
		e.Method = c.Method()
		e.Path = c.Path()
		e.Status = c.Response().StatusCode()
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			e.ReqID = rid
		}
	}
	if err != nil {
		e.Err = err.Error()
	}
	b, _ := json.Marshal(e)
	log.Println(string(b))
}

func Info(c *fiber.Ctx, action string, fields map[string]any) { write("info", c, action, nil, fields) }

// Audit records a state-changing action by the operator.
func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	write("audit", c, action, nil, fields)
}
func Warn(c *fiber.Ctx, action string, fields map[string]any) {
	write("warn", c, action, nil, fields)
}
func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write("error", c, action, err, fields)
}
