package prompt

import (
	"fmt"
	"strings"
)

// FileContext is a candidate document offered to the user alongside an answer.
type FileContext struct {
	Filename    string
	Snippet     string
	DownloadURL string
	Available   bool
}

// Knowledge is everything retrieval found for one question.
type Knowledge struct {
	PdfContent       string
	FrameworkContext string
	Files            []FileContext
}

// AgentBuilder builds the single system instruction sent ahead of the user's message.
type AgentBuilder struct {
	knowledge Knowledge
}

func NewAgentBuilder(knowledge Knowledge) *AgentBuilder {
	return &AgentBuilder{knowledge: knowledge}
}

func (b *AgentBuilder) Build() string {
	var prompt strings.Builder

	b.writePersona(&prompt)
	b.writeCapabilities(&prompt)
	b.writeAvailableContext(&prompt)
	b.writeCandidateFiles(&prompt)
	b.writeInstructions(&prompt)

	return prompt.String()
}

func (b *AgentBuilder) writePersona(prompt *strings.Builder) {
	prompt.WriteString("You are the CODE Agent - an intelligent assistant specialized in the C-O-D-E Framework for innovation and execution. ")
	prompt.WriteString("Your primary role is to help users find and understand content from uploaded PDFs and Excel files.\n\n")
}

func (b *AgentBuilder) writeCapabilities(prompt *strings.Builder) {
	prompt.WriteString("CAPABILITIES:\n")
	prompt.WriteString("- Search through uploaded PDF content and provide relevant excerpts\n")
	prompt.WriteString("- Navigate the CODE framework structure (Phases: Conceptualize, Organize, Deploy, Evolve)\n")
	prompt.WriteString("- Find specific CODE blocks, worksheets, tools, and canvases\n")
	prompt.WriteString("- Explain framework concepts and methodologies\n\n")
}

func (b *AgentBuilder) writeAvailableContext(prompt *strings.Builder) {
	prompt.WriteString("AVAILABLE CONTEXT:\n")
	if b.knowledge.PdfContent != "" {
		prompt.WriteString("PDF Content: " + b.knowledge.PdfContent + "\n")
	} else {
		prompt.WriteString("No relevant PDF content found for this query.\n")
	}
	if b.knowledge.FrameworkContext != "" {
		prompt.WriteString("CODE Framework Data: " + b.knowledge.FrameworkContext + "\n")
	} else {
		prompt.WriteString("No relevant CODE framework data found.\n")
	}
	prompt.WriteString("\n")
}

func (b *AgentBuilder) writeCandidateFiles(prompt *strings.Builder) {
	if len(b.knowledge.Files) == 0 {
		return
	}

	prompt.WriteString("DOWNLOADABLE FILES:\n")
	for i, f := range b.knowledge.Files {
		status := "available for download"
		if !f.Available {
			status = "referenced by the knowledge base but not uploaded yet"
		}
		prompt.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, f.Filename, status))
		if f.Snippet != "" {
			prompt.WriteString("   Excerpt: " + f.Snippet + "\n")
		}
		// every candidate carries its locator; unavailable ones resolve to not-found
		if f.DownloadURL != "" {
			prompt.WriteString("   Link: " + f.DownloadURL + "\n")
		}
	}
	prompt.WriteString("\n")
}

func (b *AgentBuilder) writeInstructions(prompt *strings.Builder) {
	prompt.WriteString("INSTRUCTIONS:\n")
	prompt.WriteString("- Always check the knowledge base first and prioritize information from uploaded PDFs and CODE framework data\n")
	prompt.WriteString("- If you find relevant content, quote it directly and explain its context\n")
	prompt.WriteString("- If no relevant content is found, explain what information is available and suggest related topics\n")
	prompt.WriteString("- Be concise but comprehensive in your explanations\n")
	prompt.WriteString("- Help users navigate the framework effectively\n")
	prompt.WriteString("- When referencing specific documents, mention them by name so users know they can download them")
}
