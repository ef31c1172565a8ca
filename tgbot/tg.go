// Package tgbot is the Telegram surface: it renders task lists and
// delivers fired triggers as messages. All task state lives in the keeper;
// this package only displays it.
package tgbot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tg "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"taskminder/keeper"
	"taskminder/schedule"
	"taskminder/task"
)

const (
	txtWelcomeMessage = "Hello, I keep your recurring tasks and remind you about them at the right time. Use /help to see what I can do"
	txtHelpMessage    = `I understand these commands:
/today - tasks due today
/list - all tasks
/done N - mark task N from the last list as done
/undone N - mark task N as pending again
/next N - when task N occurs next
/help - this message`
	txtUnknownCommand  = "I don't know this command. Use /help to list commands I know"
	txtNothingToday    = "Nothing is due today. Enjoy!"
	txtNoTasks         = "You don't have any tasks yet"
	txtNoSuchTask      = "I don't see that task. List tasks first, then use its number"
	txtNumberExpected  = "I expect a task number, e.g. /done 2"
	txtFailedUpdate    = "I couldn't update the task. Please try again"
	txtNoNextOccurence = "I can't tell when this task occurs next"

	fmtAlert = "⏰ %s"
	fmtTask  = "%d. %s%s — %s\n"
)

type TBot struct {
	Bot    *tg.BotAPI
	Logger *zap.SugaredLogger

	chatID int64
	keeper *keeper.Keeper

	// ids of the tasks as last shown, so commands can address them by
	// number. Single-chat bot, so one slice is enough.
	lastShown []string
}

func NewTBot(token string, chatID int64, l *zap.SugaredLogger) (*TBot, error) {
	b, err := tg.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize Telegram Bot")
	}

	b.Debug = false

	l.Infof("authorized on account %q (%q, %d)", b.Self.FirstName, b.Self.UserName, b.Self.ID)

	return &TBot{
		Bot:    b,
		Logger: l,
		chatID: chatID,
	}, nil
}

// SetKeeper attaches the task owner. The bot needs the keeper for commands
// and the reminder manager needs the bot as its sender, so wiring happens
// in two steps.
func (b *TBot) SetKeeper(k *keeper.Keeper) {
	b.keeper = k
}

// Send delivers one fired trigger. Alarm tasks arrive with sound, the rest
// silently.
func (b *TBot) Send(trg schedule.Trigger) error {
	msg := tg.NewMessage(b.chatID, fmt.Sprintf(fmtAlert, trg.Title))
	msg.DisableNotification = !trg.Alarm

	if _, err := b.Bot.Send(msg); err != nil {
		return errors.Wrap(err, "failed sending alert")
	}
	return nil
}

// Run processes incoming commands until the updates channel closes.
func (b *TBot) Run() {
	uCfg := tg.NewUpdate(0)
	uCfg.Timeout = 60

	for u := range b.Bot.GetUpdatesChan(uCfg) {
		if u.Message == nil || u.Message.Chat.ID != b.chatID {
			continue
		}
		if u.Message.IsCommand() {
			b.HandleCommand(u.Message)
		}
	}
}

func (b *TBot) HandleCommand(msg *tg.Message) {
	switch msg.Command() {
	case "start":
		b.reply(txtWelcomeMessage)
	case "help":
		b.reply(txtHelpMessage)
	case "today":
		b.showTasks(b.keeper.DueToday(), txtNothingToday)
	case "list":
		b.showTasks(b.keeper.All(), txtNoTasks)
	case "done":
		b.markDone(msg.CommandArguments(), true)
	case "undone":
		b.markDone(msg.CommandArguments(), false)
	case "next":
		b.showNext(msg.CommandArguments())
	default:
		b.reply(txtUnknownCommand)
	}
}

func (b *TBot) showTasks(tasks []task.Task, emptyText string) {
	if len(tasks) == 0 {
		b.reply(emptyText)
		return
	}

	ids := make([]string, 0, len(tasks))
	var sb strings.Builder
	for i, t := range tasks {
		ids = append(ids, t.ID)
		done := ""
		if t.IsDone {
			done = " ✓"
		}
		sb.WriteString(fmt.Sprintf(fmtTask, i+1, t.Title, done, t.Time))
	}

	b.lastShown = ids
	b.reply(sb.String())
}

func (b *TBot) markDone(arg string, done bool) {
	id, ok := b.taskByNumber(arg)
	if !ok {
		return
	}

	ctx, cancel := commandContext()
	defer cancel()

	if err := b.keeper.SetDone(ctx, id, done); err != nil {
		b.Logger.Errorw("failed updating task state", "task", id, "err", err)
		b.reply(txtFailedUpdate)
		return
	}

	b.showTasks(b.keeper.All(), txtNoTasks)
}

func (b *TBot) showNext(arg string) {
	id, ok := b.taskByNumber(arg)
	if !ok {
		return
	}

	label := b.keeper.NextLabel(id)
	if label == "" {
		b.reply(txtNoNextOccurence)
		return
	}
	b.reply(label)
}

// taskByNumber resolves a 1-based number from the last shown list. It
// replies with the relevant complaint on failure.
func (b *TBot) taskByNumber(arg string) (string, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		b.reply(txtNumberExpected)
		return "", false
	}
	if n < 1 || n > len(b.lastShown) {
		b.reply(txtNoSuchTask)
		return "", false
	}
	return b.lastShown[n-1], true
}

func (b *TBot) reply(text string) {
	msg := tg.NewMessage(b.chatID, text)
	if _, err := b.Bot.Send(msg); err != nil {
		b.Logger.Errorw("failed sending message", "err", err)
	}
}

func commandContext() (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}
