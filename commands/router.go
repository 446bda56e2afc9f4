package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap/zapcore"

	"dailydsa/errs"
	"dailydsa/logger"
	"dailydsa/model"
	"dailydsa/service"
	"dailydsa/utils"
)

const (
	component          = "COMMANDS"
	leaderboardTopSize = 10
)

// Router turns chat messages into service calls and renders the replies.
type Router struct {
	svc       Service
	prefix    string
	resetNote string
	logger    *logger.Logger
}

// NewRouter builds a router. resetNote describes when sets rotate and is shown in help.
func NewRouter(svc Service, prefix, resetNote string, log *logger.Logger) *Router {
	if log == nil {
		log = logger.NewNop()
	}
	return &Router{svc: svc, prefix: prefix, resetNote: resetNote, logger: log}
}

// Parse splits a message into verb and arguments. ok is false when the
// message is not addressed to the bot.
func (r *Router) Parse(content string) (verb string, args []string, ok bool) {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, r.prefix) {
		return "", nil, false
	}
	fields := strings.Fields(strings.TrimPrefix(content, r.prefix))
	if len(fields) == 0 {
		return "", nil, false
	}
	return strings.ToLower(fields[0]), fields[1:], true
}

// Handle runs the command in req. ok is false when the message is not a command.
func (r *Router) Handle(ctx context.Context, req Request) (Reply, bool) {
	verb, args, ok := r.Parse(req.Content)
	if !ok {
		return Reply{}, false
	}
	traceID := uuid.New().String()

	reply := Reply{CommunityID: req.CommunityID, ChannelID: req.ChannelID}
	info, known := lookupCommand(verb)
	if !known {
		reply.Text = fmt.Sprintf("Unknown command %q. Try %shelp.", verb, r.prefix)
		return reply, true
	}

	var err error
	switch info.Name {
	case "daily":
		err = r.daily(req, &reply)
	case "done":
		err = r.done(ctx, req, args, &reply)
	case "submit":
		err = r.submit(ctx, req, strings.Join(args, " "), &reply)
	case "leaderboard":
		r.leaderboard(req, &reply)
	case "set_config":
		err = r.setConfig(ctx, req, args, &reply)
	case "delete_today":
		err = r.deleteToday(ctx, req, &reply)
	case "topics":
		err = r.topics(&reply)
	case "help":
		r.help(&reply)
	}

	if err != nil {
		level := zapcore.InfoLevel
		if errors.Is(err, errs.ErrStorageIO) || errs.Type(err) == "INTERNAL_ERROR" {
			level = zapcore.ErrorLevel
		}
		r.logger.Log(level, traceID, "Command failed", map[string]any{
			"method":      "Handle",
			"command":     info.Name,
			"communityId": req.CommunityID,
			"userId":      req.UserID,
			"errorType":   errs.Type(err),
		}, component, err)
		if reply.Text == "" {
			reply.Text = errs.UserMessage(err)
		} else {
			reply.Text += "\n" + errs.UserMessage(err)
		}
	}
	return reply, true
}

func (r *Router) usage(name string) error {
	info, _ := lookupCommand(name)
	return fmt.Errorf("%w, usage: %s%s", errs.ErrInvalidCommand, r.prefix, info.Usage)
}

func (r *Router) daily(req Request, reply *Reply) error {
	set, ok, err := r.svc.Daily(req.CommunityID)
	if err != nil {
		return err
	}
	if !ok || len(set.Problems) == 0 {
		reply.Text = "Questions not generated yet for today."
		return nil
	}
	reply.Embed = DailyEmbed(set, r.svc.Today())
	return nil
}

func (r *Router) done(ctx context.Context, req Request, args []string, reply *Reply) error {
	if len(args) == 0 {
		return r.usage("done")
	}
	n, convErr := strconv.Atoi(args[0])
	if convErr != nil || len(args) > 1 {
		return r.submit(ctx, req, strings.Join(args, " "), reply)
	}

	outcome, err := r.svc.SubmitByIndex(ctx, req.UserID, req.CommunityID, n)
	if err != nil {
		return err
	}
	if outcome.Kind == model.OutcomeNotToday {
		reply.Text = "Invalid question number or daily not yet posted."
		return nil
	}
	reply.Text = r.renderOutcome(req, outcome, args[0])
	return nil
}

func (r *Router) submit(ctx context.Context, req Request, title string, reply *Reply) error {
	if strings.TrimSpace(title) == "" {
		return r.usage("submit")
	}
	outcome, err := r.svc.Submit(ctx, req.UserID, req.CommunityID, title)
	if err != nil {
		return err
	}
	reply.Text = r.renderOutcome(req, outcome, title)
	return nil
}

func (r *Router) renderOutcome(req Request, outcome model.Outcome, asked string) string {
	switch outcome.Kind {
	case model.OutcomeScored:
		return fmt.Sprintf("%s completed **%s** (+%d pts) - Total: %d",
			mention(req.UserID), outcome.Problem.Title, outcome.Points, outcome.Total)
	case model.OutcomeAlreadyDone:
		return fmt.Sprintf("You already completed **%s** today!", outcome.Problem.Title)
	case model.OutcomeNotToday:
		return fmt.Sprintf("%q is not part of today's set.", asked)
	default:
		return errs.UserMessage(errs.ErrUnknownProblem)
	}
}

func (r *Router) leaderboard(req Request, reply *Reply) {
	ranked := r.svc.Rank()
	if len(ranked) == 0 {
		reply.Text = "No scores yet!"
		return
	}
	reply.Embed = LeaderboardEmbed(ranked, req.UserID, leaderboardTopSize)
}

func (r *Router) setConfig(ctx context.Context, req Request, args []string, reply *Reply) error {
	if len(args) < 2 {
		return r.usage("set_config")
	}
	count, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w, question count must be a positive integer", errs.ErrConfigValidation)
	}

	// Topics are comma separated so multi-word tags survive: "dynamic programming, graph".
	topics := utils.SplitList(strings.Join(args[2:], " "))
	set, err := r.svc.SetConfig(ctx, service.SetConfigRequest{
		CommunityID:   req.CommunityID,
		QuestionCount: count,
		Difficulties:  utils.SplitList(args[1]),
		Topics:        topics,
		ChannelID:     req.ChannelID,
	})
	switch {
	case errors.Is(err, errs.ErrNoCandidates):
		reply.Text = "Configuration saved."
		return err
	case err != nil:
		return err
	}

	topicNote := "all topics"
	if len(topics) > 0 {
		topicNote = strings.Join(topics, ", ")
	}
	reply.Text = fmt.Sprintf("Configuration saved: %d question(s), %s, %s. New problems are below.",
		count, strings.Join(utils.SplitList(args[1]), ", "), topicNote)
	reply.Embed = DailyEmbed(set, r.svc.Today())
	return nil
}

func (r *Router) deleteToday(ctx context.Context, req Request, reply *Reply) error {
	deleted, err := r.svc.DeleteToday(ctx, req.CommunityID)
	if err != nil {
		return err
	}
	if !deleted {
		reply.Text = "There is no active set to clear."
		return nil
	}
	reply.Text = "Today's problems were cleared."
	return nil
}

func (r *Router) topics(reply *Reply) error {
	topics, err := r.svc.Topics()
	if err != nil {
		return err
	}
	if len(topics) == 0 {
		reply.Text = "The catalog has no topic tags."
		return nil
	}
	reply.Embed = &Embed{
		Title:       fmt.Sprintf("Topics (%d)", len(topics)),
		Description: strings.Join(topics, ", "),
	}
	return nil
}

func (r *Router) help(reply *Reply) {
	fields := make([]Field, 0, len(Catalog)+1)
	for _, info := range Catalog {
		name := r.prefix + info.Usage
		if len(info.Aliases) > 0 {
			name += " (" + r.prefix + strings.Join(info.Aliases, ", "+r.prefix) + ")"
		}
		fields = append(fields, Field{Name: name, Value: info.Description})
	}
	fields = append(fields, Field{
		Name: "Scoring",
		Value: fmt.Sprintf("Easy +%d, Medium +%d, Hard +%d. -%d pts if you skip a day without solving. %s",
			model.DifficultyEasy.Points(), model.DifficultyMedium.Points(), model.DifficultyHard.Points(),
			service.IdlePenalty, r.resetNote),
	})
	reply.Embed = &Embed{
		Title:       "Daily DSA practice",
		Description: "Solve the daily problems, mark them done and climb the leaderboard.",
		Fields:      fields,
	}
}
