package agent

import "encoding/json"

// Tool names
const (
	ToolAddTask      = "add_task"
	ToolListTasks    = "list_tasks"
	ToolUpdateTask   = "update_task"
	ToolCompleteTask = "complete_task"
	ToolDeleteTask   = "delete_task"
)

// Tool is one entry of the static tool table.
type Tool struct {
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description" yaml:"description"`
	Parameters  json.RawMessage `json:"parameters" yaml:"-"`
}

// OpenAITool is a Tool in OpenAI function-calling format.
type OpenAITool struct {
	Type     string         `json:"type"`
	Function OpenAIFunction `json:"function"`
}

type OpenAIFunction struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

var tools = []Tool{
	{
		Name:        ToolAddTask,
		Description: "Create a new todo task for the tenant",
		Parameters: json.RawMessage(`{
  "type": "object",
  "properties": {
    "tenant_id": {"type": "string", "description": "Tenant identifier for task ownership"},
    "title": {"type": "string", "description": "Task title/summary (max 200 chars)"},
    "description": {"type": "string", "description": "Optional detailed task description (max 2000 chars)"}
  },
  "required": ["tenant_id", "title"]
}`),
	},
	{
		Name:        ToolListTasks,
		Description: "Retrieve the tenant's tasks, newest first",
		Parameters: json.RawMessage(`{
  "type": "object",
  "properties": {
    "tenant_id": {"type": "string", "description": "Tenant identifier for filtering"},
    "status": {"type": "string", "enum": ["all", "pending", "completed"], "description": "Filter by completion status (default: all)"}
  },
  "required": ["tenant_id"]
}`),
	},
	{
		Name:        ToolUpdateTask,
		Description: "Modify the title and/or description of an existing task",
		Parameters: json.RawMessage(`{
  "type": "object",
  "properties": {
    "tenant_id": {"type": "string", "description": "Tenant identifier for ownership verification"},
    "task_id": {"type": "integer", "minimum": 1, "description": "Id of the task to update"},
    "title": {"type": "string", "description": "New task title (max 200 chars)"},
    "description": {"type": "string", "description": "New task description (max 2000 chars)"}
  },
  "required": ["tenant_id", "task_id"]
}`),
	},
	{
		Name:        ToolCompleteTask,
		Description: "Mark a task as completed. Completing a completed task succeeds",
		Parameters: json.RawMessage(`{
  "type": "object",
  "properties": {
    "tenant_id": {"type": "string", "description": "Tenant identifier for ownership verification"},
    "task_id": {"type": "integer", "minimum": 1, "description": "Id of the task to complete"}
  },
  "required": ["tenant_id", "task_id"]
}`),
	},
	{
		Name:        ToolDeleteTask,
		Description: "Permanently delete a task",
		Parameters: json.RawMessage(`{
  "type": "object",
  "properties": {
    "tenant_id": {"type": "string", "description": "Tenant identifier for ownership verification"},
    "task_id": {"type": "integer", "minimum": 1, "description": "Id of the task to delete"}
  },
  "required": ["tenant_id", "task_id"]
}`),
	},
}

// Tools returns a copy of the tool table.
func Tools() []Tool {
	out := make([]Tool, len(tools))
	copy(out, tools)
	return out
}

// Lookup finds a tool by name
func Lookup(name string) (Tool, bool) {
	for _, t := range tools {
		if t.Name == name {
			return t, true
		}
	}
	return Tool{}, false
}

func OpenAITools() []OpenAITool {
	out := make([]OpenAITool, 0, len(tools))
	for _, t := range tools {
		out = append(out, OpenAITool{
			Type: "function",
			Function: OpenAIFunction{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return out
}
