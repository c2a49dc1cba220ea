package agentexec

// Tool describes one entry in the fixed tool registry advertised over
// tools/list and dispatched by tools/call.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

func schema(properties map[string]any, required ...string) map[string]any {
	req := required
	if req == nil {
		req = []string{}
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   req,
	}
}

func prop(kind, description string) map[string]any {
	return map[string]any{"type": kind, "description": description}
}

// toolRegistry is the fixed, process-wide tool list the in-process MCP
// server advertises. Concrete tool execution is out of scope; tools/call
// reports success without dispatching to a real implementation.
var toolRegistry = []Tool{
	{Name: "abort_create", Description: "Create an abort file to signal workflow termination",
		InputSchema: schema(map[string]any{"reason": prop("string", "Reason for the abort")}, "reason")},

	{Name: "files_read", Description: "Read file contents from the local filesystem",
		InputSchema: schema(map[string]any{
			"absolute_path": prop("string", "Full absolute path to the file to read"),
			"offset":        prop("number", "Starting line number for partial reading (optional)"),
			"limit":         prop("number", "Maximum number of lines to read (optional)"),
		}, "absolute_path")},
	{Name: "files_write", Description: "Write content to files with atomic operations",
		InputSchema: schema(map[string]any{
			"file_path": prop("string", "Absolute path for the new or existing file"),
			"content":   prop("string", "Complete file content to write"),
		}, "file_path", "content")},
	{Name: "files_edit", Description: "Perform precise string replacements in existing files",
		InputSchema: schema(map[string]any{
			"file_path":   prop("string", "Absolute path to the file to modify"),
			"old_string":  prop("string", "Exact text to replace"),
			"new_string":  prop("string", "Replacement text"),
			"replace_all": prop("boolean", "Replace all occurrences (default: false)"),
		}, "file_path", "old_string", "new_string")},
	{Name: "files_glob", Description: "Fast file pattern matching with advanced filtering",
		InputSchema: schema(map[string]any{
			"pattern":            prop("string", "Glob pattern to match files"),
			"path":               prop("string", "Directory to search within (optional)"),
			"case_sensitive":     prop("boolean", "Case-sensitive matching (default: false)"),
			"respect_git_ignore": prop("boolean", "Honor .gitignore patterns (default: true)"),
		}, "pattern")},
	{Name: "files_grep", Description: "Content-based search across files",
		InputSchema: schema(map[string]any{
			"pattern":          prop("string", "Regular expression pattern to search"),
			"path":             prop("string", "File or directory to search in (optional)"),
			"glob":             prop("string", "Glob pattern to filter files (optional)"),
			"case_insensitive": prop("boolean", "Case-insensitive search (optional)"),
			"context_lines":    prop("number", "Number of context lines around matches (optional)"),
			"output_mode":      prop("string", "Output format (content, files_with_matches, count) (optional)"),
		}, "pattern")},

	{Name: "issue_create", Description: "Create a new issue with auto-assigned number",
		InputSchema: schema(map[string]any{
			"content": prop("string", "Markdown content of the issue"),
			"name":    prop("string", "Name of the issue (optional for nameless issues)"),
		}, "content")},
	{Name: "issue_list", Description: "List all available issues with their status and metadata",
		InputSchema: schema(map[string]any{
			"show_completed": prop("boolean", "Include completed issues in the list (default: false)"),
			"show_active":    prop("boolean", "Include active issues in the list (default: true)"),
			"format":         prop("string", "Output format - table, json, or markdown (default: table)"),
		})},
	{Name: "issue_show", Description: "Display details of a specific issue by name",
		InputSchema: schema(map[string]any{
			"name": prop("string", "Name of the issue. 'current' and 'next' are special values"),
			"raw":  prop("boolean", "Show raw content only without formatting (default: false)"),
		}, "name")},
	{Name: "issue_work", Description: "Switch to a work branch for the specified issue",
		InputSchema: schema(map[string]any{"name": prop("string", "Issue name to work on")}, "name")},
	{Name: "issue_mark_complete", Description: "Mark an issue as complete",
		InputSchema: schema(map[string]any{"name": prop("string", "Issue name to mark as complete")}, "name")},
	{Name: "issue_update", Description: "Update the content of an existing issue",
		InputSchema: schema(map[string]any{
			"name":    prop("string", "Issue name to update"),
			"content": prop("string", "New markdown content for the issue"),
			"append":  prop("boolean", "Append instead of replacing (default: false)"),
		}, "name", "content")},
	{Name: "issue_all_complete", Description: "Check if all issues are completed",
		InputSchema: schema(map[string]any{})},
	{Name: "issue_merge", Description: "Merge the work branch for an issue back to the source branch",
		InputSchema: schema(map[string]any{
			"name":          prop("string", "Issue name to merge"),
			"delete_branch": prop("boolean", "Delete the branch after merging (default: false)"),
		}, "name")},

	{Name: "memo_create", Description: "Create a new memo with the given title and content",
		InputSchema: schema(map[string]any{
			"title":   prop("string", "Title of the memo"),
			"content": prop("string", "Markdown content of the memo"),
		}, "title", "content")},
	{Name: "memo_list", Description: "List all available memos", InputSchema: schema(map[string]any{})},
	{Name: "memo_get", Description: "Retrieve a memo by its unique ID",
		InputSchema: schema(map[string]any{"id": prop("string", "ULID identifier of the memo")}, "id")},
	{Name: "memo_update", Description: "Update a memo's content by its ID",
		InputSchema: schema(map[string]any{
			"id":      prop("string", "ULID identifier of the memo"),
			"content": prop("string", "New markdown content for the memo"),
		}, "id", "content")},
	{Name: "memo_delete", Description: "Delete a memo by its unique ID",
		InputSchema: schema(map[string]any{"id": prop("string", "ULID identifier of the memo")}, "id")},
	{Name: "memo_search", Description: "Search memos by query string",
		InputSchema: schema(map[string]any{"query": prop("string", "Search query string")}, "query")},
	{Name: "memo_get_all_context", Description: "Get all memo content formatted for AI context consumption",
		InputSchema: schema(map[string]any{})},

	{Name: "notify_create", Description: "Send notification messages from the agent to the user",
		InputSchema: schema(map[string]any{
			"message": prop("string", "The message to notify the user about"),
			"level":   prop("string", "Notification level (default: info)"),
			"context": map[string]any{"type": "object", "description": "Optional structured data for the notification"},
		}, "message")},

	{Name: "outline_generate", Description: "Generate structured code overviews",
		InputSchema: schema(map[string]any{
			"patterns":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Glob patterns to match files against"},
			"output_format": prop("string", "Output format for the outline (default: yaml)"),
		}, "patterns")},

	{Name: "search_index", Description: "Index files for semantic search",
		InputSchema: schema(map[string]any{
			"patterns": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Glob patterns or specific files to index"},
			"force":    prop("boolean", "Force re-indexing of all files (default: false)"),
		}, "patterns")},
	{Name: "search_query", Description: "Perform semantic search across indexed files",
		InputSchema: schema(map[string]any{
			"query": prop("string", "Search query string"),
			"limit": prop("integer", "Number of results to return (default: 10)"),
		}, "query")},

	{Name: "shell_execute", Description: "Execute shell commands with timeout controls",
		InputSchema: schema(map[string]any{
			"command":           prop("string", "The shell command to execute"),
			"working_directory": prop("string", "Working directory for command execution (optional)"),
			"timeout":           prop("integer", "Command timeout in seconds (optional)"),
			"environment":       prop("string", "Additional environment variables as a JSON string (optional)"),
		}, "command")},

	{Name: "todo_create", Description: "Add a new item to a todo list for ephemeral task tracking",
		InputSchema: schema(map[string]any{
			"todo_list": prop("string", "Name of the todo list file (without extension)"),
			"task":      prop("string", "Brief description of the task"),
			"context":   prop("string", "Additional context or implementation details (optional)"),
		}, "todo_list", "task")},
	{Name: "todo_show", Description: "Retrieve a specific todo item or the next incomplete item",
		InputSchema: schema(map[string]any{
			"todo_list": prop("string", "Name of the todo list file (without extension)"),
			"item":      prop("string", "A ULID, or \"next\" for the next incomplete item"),
		}, "todo_list", "item")},
	{Name: "todo_mark_complete", Description: "Mark a todo item as completed",
		InputSchema: schema(map[string]any{
			"todo_list": prop("string", "Name of the todo list file (without extension)"),
			"id":        prop("string", "ULID of the todo item to mark as complete"),
		}, "todo_list", "id")},

	{Name: "web_fetch", Description: "Fetch web content and convert it to markdown for agent processing",
		InputSchema: schema(map[string]any{
			"url":                prop("string", "The URL to fetch content from"),
			"timeout":            prop("integer", "Request timeout in seconds (optional)"),
			"follow_redirects":   prop("boolean", "Whether to follow HTTP redirects (optional)"),
			"max_content_length": prop("integer", "Maximum content length in bytes (optional)"),
		}, "url")},
	{Name: "web_search", Description: "Perform web searches",
		InputSchema: schema(map[string]any{
			"query":         prop("string", "The search query string"),
			"results_count": prop("integer", "Number of search results to return (optional)"),
			"safe_search":   prop("integer", "Safe search filtering level (optional)"),
		}, "query")},
}

// FindTool looks up a registry entry by name.
func FindTool(name string) (Tool, bool) {
	for _, t := range toolRegistry {
		if t.Name == name {
			return t, true
		}
	}
	return Tool{}, false
}
