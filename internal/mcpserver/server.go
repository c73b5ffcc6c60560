// Package mcpserver implements an MCP (Model Context Protocol) server that
// exposes the student roster as typed tools over stdio JSON-RPC.
package mcpserver

import (
	"context"
	"io"
	stdlog "log"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/rollbook/rollbook/internal/config"
	"github.com/rollbook/rollbook/internal/model"
	"github.com/rollbook/rollbook/internal/repository"
)

// Server holds the MCP server state.
type Server struct {
	students *repository.Students
	school   model.School
	log      zerolog.Logger
}

// NewServer creates an MCP server backed by the given student repository.
func NewServer(students *repository.Students, school model.School, log zerolog.Logger) *Server {
	return &Server{
		students: students,
		school:   school,
		log:      log.With().Str("component", "mcp").Logger(),
	}
}

// Run serves tools over in and out. It blocks until ctx is cancelled or in
// is closed.
func (s *Server) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	mcpServer := server.NewMCPServer(
		"rollbook",
		config.Version,
		server.WithToolCapabilities(true),
	)
	mcpServer.AddTools(s.tools()...)

	stdio := server.NewStdioServer(mcpServer)
	stdio.SetErrorLogger(stdlog.New(s.log, "", 0))

	s.log.Info().Str("school", s.school.Name).Msg("mcp server listening on stdio")
	return stdio.Listen(ctx, in, out)
}

func (s *Server) tools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: listStudentsTool(), Handler: s.handleListStudents},
		{Tool: getStudentTool(), Handler: s.handleGetStudent},
		{Tool: addStudentTool(), Handler: s.handleAddStudent},
		{Tool: removeStudentTool(), Handler: s.handleRemoveStudent},
		{Tool: schoolInfoTool(), Handler: s.handleSchoolInfo},
	}
}
