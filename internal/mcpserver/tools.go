package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rollbook/rollbook/internal/db"
	"github.com/rollbook/rollbook/internal/model"
)

// --- Tool Definitions ---

func listStudentsTool() mcp.Tool {
	return mcp.NewToolWithRawSchema(
		"list_students",
		"List every student ordered by last name, then first name.",
		json.RawMessage(`{"type": "object", "properties": {}}`),
	)
}

func getStudentTool() mcp.Tool {
	return mcp.NewToolWithRawSchema(
		"get_student",
		"Get a single student by ID.",
		json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {
					"type": "integer",
					"description": "Student ID"
				}
			},
			"required": ["id"]
		}`),
	)
}

func addStudentTool() mcp.Tool {
	return mcp.NewToolWithRawSchema(
		"add_student",
		"Enroll a new student and return it with its assigned ID.",
		json.RawMessage(`{
			"type": "object",
			"properties": {
				"first_name": {
					"type": "string",
					"description": "First name, at most 65 bytes"
				},
				"last_name": {
					"type": "string",
					"description": "Last name, at most 65 bytes"
				},
				"gpa": {
					"type": "number",
					"description": "Grade point average (default 0)"
				}
			},
			"required": ["first_name", "last_name"]
		}`),
	)
}

func removeStudentTool() mcp.Tool {
	return mcp.NewToolWithRawSchema(
		"remove_student",
		"Remove a student by ID. Removing an unknown ID succeeds.",
		json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {
					"type": "integer",
					"description": "Student ID"
				}
			},
			"required": ["id"]
		}`),
	)
}

func schoolInfoTool() mcp.Tool {
	return mcp.NewToolWithRawSchema(
		"school_info",
		"Describe the school this roster belongs to.",
		json.RawMessage(`{"type": "object", "properties": {}}`),
	)
}

// --- Tool Handlers ---

type idArgs struct {
	ID int64 `json:"id"`
}

type addStudentArgs struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	GPA       float64 `json:"gpa"`
}

type removeResult struct {
	ID      int64 `json:"id"`
	Removed bool  `json:"removed"`
}

func (s *Server) handleListStudents(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	students, err := s.students.ListByName(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list students: %v", err)), nil
	}
	return resultJSON(students)
}

func (s *Server) handleGetStudent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args idArgs
	if err := req.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if args.ID <= 0 {
		return mcp.NewToolResultError("id must be a positive integer"), nil
	}

	student, err := s.students.FindByID(ctx, args.ID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("get student: %v", err)), nil
	}
	if student == nil {
		return mcp.NewToolResultError(fmt.Sprintf("student %d not found", args.ID)), nil
	}
	return resultJSON(student)
}

func (s *Server) handleAddStudent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args addStudentArgs
	if err := req.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}

	student := model.Student{FirstName: args.FirstName, LastName: args.LastName, GPA: args.GPA}
	if err := s.students.Save(ctx, &student); err != nil {
		var execErr *db.ExecutionError
		if errors.As(err, &execErr) {
			return mcp.NewToolResultError(fmt.Sprintf("add student rejected by the store: %v", execErr.Err)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("add student: %v", err)), nil
	}

	s.log.Info().Int64("id", student.ID).Str("name", student.FullName()).Msg("student added")
	return resultJSON(student)
}

func (s *Server) handleRemoveStudent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args idArgs
	if err := req.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if args.ID <= 0 {
		return mcp.NewToolResultError("id must be a positive integer"), nil
	}

	if err := s.students.RemoveByID(ctx, args.ID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("remove student: %v", err)), nil
	}

	s.log.Info().Int64("id", args.ID).Msg("student removed")
	return resultJSON(removeResult{ID: args.ID, Removed: true})
}

func (s *Server) handleSchoolInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return resultJSON(s.school)
}

// resultJSON marshals v to JSON and returns it as a tool result.
func resultJSON(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
