package mcpserver

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"

	"github.com/rollbook/rollbook/internal/db"
	"github.com/rollbook/rollbook/internal/model"
	"github.com/rollbook/rollbook/internal/repository"
)

// --- Helpers ---

func newTestServer(t *testing.T) *Server {
	t.Helper()
	session := db.New()
	if err := session.Initialize(context.Background(), filepath.Join(t.TempDir(), "mcp.db"), db.SchemaVersion); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(func() { _ = session.Terminate() })

	school := model.School{ID: 7, Name: "Springfield Elementary"}
	return NewServer(repository.NewStudents(session), school, zerolog.Nop())
}

func makeRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("result content is %T, not TextContent", result.Content[0])
	}
	return tc.Text
}

func addStudent(t *testing.T, s *Server, first, last string, gpa float64) model.Student {
	t.Helper()
	result, err := s.handleAddStudent(context.Background(), makeRequest("add_student", map[string]any{
		"first_name": first,
		"last_name":  last,
		"gpa":        gpa,
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got error: %s", resultText(t, result))
	}
	var student model.Student
	if err := json.Unmarshal([]byte(resultText(t, result)), &student); err != nil {
		t.Fatalf("failed to unmarshal result: %v", err)
	}
	return student
}

// --- Tests ---

func TestTools_Registered(t *testing.T) {
	s := newTestServer(t)

	var names []string
	for _, tool := range s.tools() {
		names = append(names, tool.Tool.Name)
	}
	want := "list_students,get_student,add_student,remove_student,school_info"
	if got := strings.Join(names, ","); got != want {
		t.Errorf("tools = %s, want %s", got, want)
	}
}

func TestAddStudent_Success(t *testing.T) {
	s := newTestServer(t)

	student := addStudent(t, s, "Ada", "Lovelace", 4.0)
	if student.ID == 0 {
		t.Fatal("expected an assigned ID")
	}
	if student.FirstName != "Ada" || student.LastName != "Lovelace" || student.GPA != 4.0 {
		t.Errorf("unexpected student: %+v", student)
	}
}

func TestAddStudent_EmptyName(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleAddStudent(context.Background(), makeRequest("add_student", map[string]any{
		"first_name": "",
		"last_name":  "Lovelace",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error for an empty first name")
	}
	if text := resultText(t, result); !strings.Contains(text, "rejected by the store") {
		t.Errorf("expected store rejection message, got: %s", text)
	}
}

func TestAddStudent_NameTooLong(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleAddStudent(context.Background(), makeRequest("add_student", map[string]any{
		"first_name": strings.Repeat("x", model.MaxNameLen+1),
		"last_name":  "Lovelace",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error for an over-length name")
	}
}

func TestGetStudent(t *testing.T) {
	s := newTestServer(t)
	ada := addStudent(t, s, "Ada", "Lovelace", 4.0)

	result, err := s.handleGetStudent(context.Background(), makeRequest("get_student", map[string]any{"id": ada.ID}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got error: %s", resultText(t, result))
	}

	var got model.Student
	if err := json.Unmarshal([]byte(resultText(t, result)), &got); err != nil {
		t.Fatalf("failed to unmarshal result: %v", err)
	}
	if got != ada {
		t.Errorf("got %+v, want %+v", got, ada)
	}
}

func TestGetStudent_NotFound(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleGetStudent(context.Background(), makeRequest("get_student", map[string]any{"id": 42}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error for a missing student")
	}
	if text := resultText(t, result); !strings.Contains(text, "not found") {
		t.Errorf("expected not found message, got: %s", text)
	}
}

func TestGetStudent_InvalidID(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleGetStudent(context.Background(), makeRequest("get_student", map[string]any{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error for a missing id")
	}
}

func TestListStudents(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleListStudents(context.Background(), makeRequest("list_students", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text := resultText(t, result); text != "[]" {
		t.Errorf("expected empty JSON array, got: %s", text)
	}

	addStudent(t, s, "Alan", "Turing", 3.5)
	addStudent(t, s, "Ada", "Lovelace", 4.0)

	result, err = s.handleListStudents(context.Background(), makeRequest("list_students", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var students []model.Student
	if err := json.Unmarshal([]byte(resultText(t, result)), &students); err != nil {
		t.Fatalf("failed to unmarshal result: %v", err)
	}
	if len(students) != 2 {
		t.Fatalf("expected 2 students, got %d", len(students))
	}
	if students[0].LastName != "Lovelace" || students[1].LastName != "Turing" {
		t.Errorf("expected students ordered by last name, got %+v", students)
	}
}

func TestRemoveStudent(t *testing.T) {
	s := newTestServer(t)
	ada := addStudent(t, s, "Ada", "Lovelace", 4.0)

	for i := 0; i < 2; i++ {
		result, err := s.handleRemoveStudent(context.Background(), makeRequest("remove_student", map[string]any{"id": ada.ID}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("remove #%d: expected success, got error: %s", i+1, resultText(t, result))
		}
	}

	found, err := s.students.FindByID(context.Background(), ada.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found != nil {
		t.Errorf("expected student to be removed, got %+v", found)
	}
}

func TestSchoolInfo(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleSchoolInfo(context.Background(), makeRequest("school_info", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text := resultText(t, result); text != `{"id":7,"name":"Springfield Elementary"}` {
		t.Errorf("unexpected school info: %s", text)
	}
}
