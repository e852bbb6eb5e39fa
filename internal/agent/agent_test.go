package agent

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"todo_backend/internal/domain"
	"todo_backend/internal/repository"
	"todo_backend/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
)

func newTestAgent(t *testing.T) *Agent {
	t.Helper()
	a, err := New(service.NewTaskService(repository.NewMemoryTaskRepository()))
	if err != nil {
		t.Fatalf("new agent: %v", err)
	}
	return a
}

func call(t *testing.T, a *Agent, name, args string) (any, error) {
	t.Helper()
	return a.Call(context.Background(), name, json.RawMessage(args))
}

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	return ve.Field
}

func TestToolTable(t *testing.T) {
	want := []string{ToolAddTask, ToolListTasks, ToolUpdateTask, ToolCompleteTask, ToolDeleteTask}
	got := Tools()
	if len(got) != len(want) {
		t.Fatalf("tools = %d; want %d", len(got), len(want))
	}
	for i, tool := range got {
		if tool.Name != want[i] {
			t.Fatalf("tool %d = %s; want %s", i, tool.Name, want[i])
		}
		var schema struct {
			Required []string `json:"required"`
		}
		if err := json.Unmarshal(tool.Parameters, &schema); err != nil {
			t.Fatalf("%s schema: %v", tool.Name, err)
		}
		if len(schema.Required) == 0 || schema.Required[0] != "tenant_id" {
			t.Fatalf("%s must require tenant_id, got %v", tool.Name, schema.Required)
		}
	}

	openai := OpenAITools()
	if len(openai) != len(want) || openai[0].Type != "function" || openai[0].Function.Name != ToolAddTask {
		t.Fatalf("unexpected openai tools: %+v", openai)
	}
}

func TestCallLifecycle(t *testing.T) {
	a := newTestAgent(t)

	out, err := call(t, a, ToolAddTask, `{"tenant_id":"alice","title":"Buy milk"}`)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	res := out.(*service.Result)
	if res.Status != service.StatusCreated || res.Title != "Buy milk" {
		t.Fatalf("unexpected add result: %+v", res)
	}

	out, err = call(t, a, ToolUpdateTask, `{"tenant_id":"alice","task_id":`+itoa(res.ID)+`,"description":"2 liters"}`)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if out.(*service.Result).Status != service.StatusUpdated {
		t.Fatalf("unexpected update result: %+v", out)
	}

	for i := 0; i < 2; i++ {
		if _, err := call(t, a, ToolCompleteTask, `{"tenant_id":"alice","task_id":`+itoa(res.ID)+`}`); err != nil {
			t.Fatalf("complete #%d: %v", i+1, err)
		}
	}

	out, err = call(t, a, ToolListTasks, `{"tenant_id":"alice","status":"completed"}`)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	list := out.(*ListResult)
	if list.Total != 1 || list.Filter != "completed" || list.Tasks[0].Description != "2 liters" {
		t.Fatalf("unexpected list: %+v", list)
	}

	if _, err := call(t, a, ToolDeleteTask, `{"tenant_id":"alice","task_id":`+itoa(res.ID)+`}`); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err = call(t, a, ToolDeleteTask, `{"tenant_id":"alice","task_id":`+itoa(res.ID)+`}`)
	if !domain.IsNotFound(err) {
		t.Fatalf("second delete: expected not found, got %v", err)
	}
}

func TestListDefaultsToAll(t *testing.T) {
	a := newTestAgent(t)
	out, err := call(t, a, ToolListTasks, `{"tenant_id":"bob"}`)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	list := out.(*ListResult)
	if list.Filter != "all" || list.Total != 0 || list.Tasks == nil {
		t.Fatalf("unexpected list: %+v", list)
	}

	body, _ := json.Marshal(list)
	if !strings.Contains(string(body), `"tasks":[]`) {
		t.Fatalf("empty list should encode as []: %s", body)
	}
}

func TestCallSchemaViolations(t *testing.T) {
	a := newTestAgent(t)

	cases := []struct {
		tool, args, field string
	}{
		{ToolAddTask, `{"title":"no tenant"}`, "tenant_id"},
		{ToolAddTask, `{"tenant_id":"alice"}`, "title"},
		{ToolAddTask, `{"tenant_id":"alice","title":42}`, "title"},
		{ToolListTasks, `{"tenant_id":"alice","status":"done"}`, "status"},
		{ToolCompleteTask, `{"tenant_id":"alice","task_id":0}`, "task_id"},
		{ToolCompleteTask, `{"tenant_id":"alice","task_id":"7"}`, "task_id"},
		{ToolDeleteTask, `[]`, "arguments"},
		{ToolDeleteTask, `not json`, "arguments"},
	}
	for _, tc := range cases {
		_, err := call(t, a, tc.tool, tc.args)
		if f := fieldOf(t, err); f != tc.field {
			t.Fatalf("%s %s: field = %s; want %s", tc.tool, tc.args, f, tc.field)
		}
	}
}

func TestCallDomainValidation(t *testing.T) {
	a := newTestAgent(t)

	_, err := call(t, a, ToolAddTask, `{"tenant_id":"   ","title":"x"}`)
	if f := fieldOf(t, err); f != "tenant_id" {
		t.Fatalf("field = %s; want tenant_id", f)
	}
	_, err = call(t, a, ToolAddTask, `{"tenant_id":"alice","title":"`+strings.Repeat("a", 201)+`"}`)
	if f := fieldOf(t, err); f != "title" {
		t.Fatalf("field = %s; want title", f)
	}
	_, err = call(t, a, ToolUpdateTask, `{"tenant_id":"alice","task_id":1}`)
	if f := fieldOf(t, err); f != "fields" {
		t.Fatalf("field = %s; want fields", f)
	}
}

func TestCallUnknownTool(t *testing.T) {
	a := newTestAgent(t)
	if _, err := call(t, a, "drop_tables", `{}`); !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("expected ErrUnknownTool, got %v", err)
	}
}

func TestCallTenantIsolation(t *testing.T) {
	a := newTestAgent(t)
	out, err := call(t, a, ToolAddTask, `{"tenant_id":"alice","title":"private"}`)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	id := itoa(out.(*service.Result).ID)

	_, err = call(t, a, ToolCompleteTask, `{"tenant_id":"bob","task_id":`+id+`}`)
	if !domain.IsNotFound(err) {
		t.Fatalf("bob complete: expected not found, got %v", err)
	}
}

func TestSystemPrompt(t *testing.T) {
	p := SystemPrompt(time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC))
	for _, want := range []string{"CrudSubagent", "tenant_id", "Current date: 2025-03-14", ToolAddTask, ToolDeleteTask} {
		if !strings.Contains(p, want) {
			t.Fatalf("prompt missing %q:\n%s", want, p)
		}
	}
}

func TestMCPHandler(t *testing.T) {
	a := newTestAgent(t)
	srv := NewMCPServer(a, "test")
	if srv == nil {
		t.Fatalf("nil server")
	}

	req := mcp.CallToolRequest{}
	req.Params.Name = ToolAddTask
	req.Params.Arguments = map[string]any{"tenant_id": "alice", "title": "from mcp"}

	res, err := a.handler(ToolAddTask)(context.Background(), req)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %+v", res.Content)
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok || !strings.Contains(text.Text, `"status":"created"`) {
		t.Fatalf("unexpected content: %+v", res.Content)
	}

	req.Params.Arguments = map[string]any{"tenant_id": "alice", "task_id": 999}
	res, err = a.handler(ToolDeleteTask)(context.Background(), req)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !res.IsError {
		t.Fatalf("expected tool error result")
	}
	text, _ = res.Content[0].(mcp.TextContent)
	if !strings.Contains(text.Text, `"error":"not_found"`) {
		t.Fatalf("unexpected error payload: %s", text.Text)
	}
}

func itoa(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}
