package app

import (
	"context"
	"errors"
	"strings"

	"github.com/howto-cli/howto/internal/pkg/ai"
	"github.com/howto-cli/howto/internal/pkg/config"
	apperrors "github.com/howto-cli/howto/internal/pkg/errors"
	"github.com/howto-cli/howto/internal/pkg/history"
	"github.com/howto-cli/howto/internal/pkg/ui"
)

// SpinnerText is shown while the remote model is answering.
const SpinnerText = "Thinking..."

// QueryService runs one conversational turn.
type QueryService struct {
	completer  ai.Completer
	uiManager  ui.Manager
	historyMgr history.Manager
	config     *config.Config
	workDir    string
}

// NewQueryService creates a new QueryService with the given dependencies.
func NewQueryService(
	completer ai.Completer,
	uiManager ui.Manager,
	historyMgr history.Manager,
	cfg *config.Config,
	workDir string,
) *QueryService {
	return &QueryService{
		completer:  completer,
		uiManager:  uiManager,
		historyMgr: historyMgr,
		config:     cfg,
		workDir:    workDir,
	}
}

// Ask sends question with the stored context and prints the answer.
// Workflow: load history → assemble → complete → display → append both entries → save.
// Nothing is written unless the model returned a non-empty answer.
func (s *QueryService) Ask(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", apperrors.NewEmptyQuestionError()
	}

	past, err := s.historyMgr.Load()
	if err != nil {
		return "", err
	}

	userEntry := history.Entry{Role: history.RoleUser, Content: question}
	conv := ai.Conversation{
		SystemPrompt:   s.config.AIModel.SystemPrompt,
		UserInfo:       s.config.GetUserInfo(),
		ProjectContext: s.config.GetProjectContext(s.workDir),
		History:        append(append([]history.Entry(nil), past...), userEntry),
	}
	messages := ai.BuildMessages(conv)

	apperrors.Debug("Asking %s with %d history entries", s.config.GetModel(), len(past))

	spinner := s.uiManager.ShowSpinner(SpinnerText)
	spinner.Start()
	answer, err := s.completer.Complete(ctx, s.config.GetModel(), messages)
	spinner.Stop()

	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) && !apperrors.HasCode(err, apperrors.ErrInterrupted) {
			return "", apperrors.NewInterruptedError(err)
		}
		return "", err
	}

	if err := s.uiManager.DisplayAnswer(answer); err != nil {
		return "", apperrors.NewFileSystemError("failed to write answer", err)
	}

	assistantEntry := history.Entry{Role: history.RoleAssistant, Content: answer}
	updated := history.AppendAndTruncate(past, []history.Entry{userEntry, assistantEntry}, s.config.GetHistoryLength())
	if err := s.historyMgr.Save(updated); err != nil {
		return answer, err
	}

	return answer, nil
}

// Ask runs one query turn through the app collaborators.
func (a *App) Ask(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", apperrors.NewEmptyQuestionError()
	}
	completer, err := a.Completer()
	if err != nil {
		return "", err
	}
	return NewQueryService(completer, a.UI, a.History, a.Config, a.WorkDir).Ask(ctx, question)
}
