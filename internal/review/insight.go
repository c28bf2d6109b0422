package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/javiermolinar/horario/internal/llm"
	"github.com/javiermolinar/horario/internal/slot"
)

const insightSystemPrompt = `You are a university timetabling analyst. Output ONLY the exact format shown - no markdown, no extra text. Be extremely concise.`

const insightPromptTemplate = `Review this weekly timetable summary and output EXACTLY this format (no markdown, no code blocks):

BALANCE: One sentence on how evenly sessions spread across the five days.
HOTSPOT: One sentence naming the busiest instructor or room and their load.
SHARING: One sentence on how much teaching is shared between sections.

NEXT:
➜  First concrete change to even out the week.
➜  Second concrete change.

Data Format:
- A period is 45 minutes; each day has %d periods
- "Shared" cells are one class taught to several sections at once

Timetable Summary:
%s

Rules:
- Keep each line under 70 characters
- Be specific with names and numbers from the data
- If no issue exists for a category, omit that line
- Output plain text only, no markdown formatting`

// Insight asks the LLM for a short plain-text review of the report.
func Insight(ctx context.Context, client llm.Client, r *Report) (string, error) {
	prompt := fmt.Sprintf(insightPromptTemplate, slot.PeriodsPerDay, strings.Join(r.Lines(), "\n"))
	return client.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: insightSystemPrompt},
		{Role: llm.RoleUser, Content: prompt},
	})
}
