// Package agent exposes the task operations as named tools with JSON-schema
// parameters for LLM tool-calling runtimes.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"todo_backend/internal/domain"
	"todo_backend/internal/service"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var ErrUnknownTool = errors.New("unknown tool")

// ListResult is the list_tasks payload
type ListResult struct {
	Tasks  []*domain.Task `json:"tasks"`
	Total  int            `json:"total"`
	Filter string         `json:"filter"`
}

type addArgs struct {
	TenantID    string `json:"tenant_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type listArgs struct {
	TenantID string `json:"tenant_id"`
	Status   string `json:"status"`
}

type updateArgs struct {
	TenantID    string  `json:"tenant_id"`
	TaskID      int64   `json:"task_id"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type taskArgs struct {
	TenantID string `json:"tenant_id"`
	TaskID   int64  `json:"task_id"`
}

// Agent dispatches tool calls to the task service. It keeps no state between
// calls.
type Agent struct {
	svc     *service.TaskService
	schemas map[string]*jsonschema.Schema
}

// New compiles every tool schema once.
func New(svc *service.TaskService) (*Agent, error) {
	compiler := jsonschema.NewCompiler()
	schemas := make(map[string]*jsonschema.Schema, len(tools))

	for _, t := range tools {
		url := t.Name + ".json"
		if err := compiler.AddResource(url, bytes.NewReader(t.Parameters)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", t.Name, err)
		}
		schema, err := compiler.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", t.Name, err)
		}
		schemas[t.Name] = schema
	}

	return &Agent{svc: svc, schemas: schemas}, nil
}

func (a *Agent) AddTask(ctx context.Context, tenantID, title, description string) (*service.Result, error) {
	return a.svc.Add(ctx, tenantID, title, description)
}

func (a *Agent) ListTasks(ctx context.Context, tenantID, status string) (*ListResult, error) {
	tasks, err := a.svc.List(ctx, tenantID, status)
	if err != nil {
		return nil, err
	}
	filter := strings.TrimSpace(status)
	if filter == "" {
		filter = string(domain.StatusAll)
	}
	return &ListResult{Tasks: tasks, Total: len(tasks), Filter: filter}, nil
}

func (a *Agent) UpdateTask(ctx context.Context, tenantID string, taskID int64, title, description *string) (*service.Result, error) {
	return a.svc.Update(ctx, tenantID, taskID, title, description)
}

func (a *Agent) CompleteTask(ctx context.Context, tenantID string, taskID int64) (*service.Result, error) {
	return a.svc.Complete(ctx, tenantID, taskID)
}

func (a *Agent) DeleteTask(ctx context.Context, tenantID string, taskID int64) (*service.Result, error) {
	return a.svc.Delete(ctx, tenantID, taskID)
}

// Call validates args against the tool's schema and runs it. Schema violations
// are reported as *domain.ValidationError naming the offending field.
func (a *Agent) Call(ctx context.Context, name string, args json.RawMessage) (any, error) {
	schema, ok := a.schemas[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	if len(bytes.TrimSpace(args)) == 0 {
		args = json.RawMessage(`{}`)
	}
	var doc any
	if err := json.Unmarshal(args, &doc); err != nil {
		return nil, domain.NewValidationError("arguments", "arguments must be a JSON object")
	}
	if err := schema.Validate(doc); err != nil {
		return nil, schemaError(err)
	}

	switch name {
	case ToolAddTask:
		var in addArgs
		if err := decode(args, &in); err != nil {
			return nil, err
		}
		return a.AddTask(ctx, in.TenantID, in.Title, in.Description)

	case ToolListTasks:
		var in listArgs
		if err := decode(args, &in); err != nil {
			return nil, err
		}
		return a.ListTasks(ctx, in.TenantID, in.Status)

	case ToolUpdateTask:
		var in updateArgs
		if err := decode(args, &in); err != nil {
			return nil, err
		}
		return a.UpdateTask(ctx, in.TenantID, in.TaskID, in.Title, in.Description)

	case ToolCompleteTask:
		var in taskArgs
		if err := decode(args, &in); err != nil {
			return nil, err
		}
		return a.CompleteTask(ctx, in.TenantID, in.TaskID)

	case ToolDeleteTask:
		var in taskArgs
		if err := decode(args, &in); err != nil {
			return nil, err
		}
		return a.DeleteTask(ctx, in.TenantID, in.TaskID)
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
}

func decode(args json.RawMessage, v any) error {
	if err := json.Unmarshal(args, v); err != nil {
		var te *json.UnmarshalTypeError
		if errors.As(err, &te) && te.Field != "" {
			return domain.NewValidationError(te.Field, "invalid value")
		}
		return domain.NewValidationError("arguments", "invalid arguments")
	}
	return nil
}

// schemaError turns the first leaf schema violation into a ValidationError.
func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return domain.NewValidationError("arguments", err.Error())
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return domain.NewValidationError(schemaField(ve), ve.Message)
}

func schemaField(ve *jsonschema.ValidationError) string {
	// required violations point at the parent object; the name is in the message
	if strings.HasSuffix(ve.KeywordLocation, "/required") {
		if start := strings.Index(ve.Message, "'"); start >= 0 {
			if end := strings.Index(ve.Message[start+1:], "'"); end > 0 {
				return ve.Message[start+1 : start+1+end]
			}
		}
	}
	field := strings.TrimPrefix(ve.InstanceLocation, "/")
	if field == "" {
		return "arguments"
	}
	return field
}

const systemPromptTemplate = `You are CrudSubagent, a precise and reliable subagent specialized in performing Create, Read, Update, and Delete operations on a tenant's todo tasks.

Rules:
- You are NOT responsible for generating natural language responses to the user. Only return the structured tool results.
- Always enforce data isolation: every operation must use the provided tenant_id and only affect that tenant's tasks.
- Validate all inputs strictly. If required fields are missing or invalid, return an error.
- Use the minimal number of tool calls necessary.
- You have access to these tools only:
%s- Never attempt to call any other tool or perform actions outside these five.

Current date: %s`

// SystemPrompt returns the instruction text for an orchestrator driving the tools.
func SystemPrompt(date time.Time) string {
	var names strings.Builder
	for _, t := range tools {
		names.WriteString("  - " + t.Name + "\n")
	}
	return fmt.Sprintf(systemPromptTemplate, names.String(), date.Format("2006-01-02"))
}
