package mcp

import "github.com/mark3labs/mcp-go/mcp"

var submitMessageTool = mcp.NewTool("submit_message",
	mcp.WithDescription("Send one citizen message to the intake agent. The agent asks for the issue, its severity (1-10) and its location, then files a report with the responsible city department. Pass the returned session_id back to continue the same conversation."),
	mcp.WithString("message",
		mcp.Required(),
		mcp.Description("The citizen's message"),
	),
	mcp.WithString("session_id",
		mcp.Description("Conversation to continue; omit to start a new one"),
	),
)

var classifyMessageTool = mcp.NewTool("classify_message",
	mcp.WithDescription("Return the city department a message would be routed to, without touching any conversation."),
	mcp.WithString("message",
		mcp.Required(),
		mcp.Description("Text to classify"),
	),
)
