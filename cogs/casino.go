package cogs

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"chatwheel/games/roulette"
	"chatwheel/models"
	"chatwheel/utils"
)

// Replier posts a chat line to a channel.
type Replier interface {
	Reply(ctx context.Context, channelID, text string) error
}

// ChatMessage is an inbound chat line stripped of transport detail.
type ChatMessage struct {
	ChannelID string
	AuthorID  string
	Username  string
	Content   string
	Bot       bool
}

// CasinoOptions wires a Casino. Publisher, Rand, Logger, Timeout and Now
// have working defaults.
type CasinoOptions struct {
	Store     utils.AccountStore
	Engine    *roulette.Engine
	Replier   Replier
	Publisher utils.Publisher
	Rand      roulette.IntSource
	Logger    *zap.Logger
	Prefix    string
	Timeout   time.Duration
	Now       func() time.Time
}

// Casino routes chat commands to the roulette engine and the points ledger.
// Work for one account is serialized; different accounts run concurrently.
type Casino struct {
	store     utils.AccountStore
	ledger    *utils.Ledger
	engine    *roulette.Engine
	locks     *utils.AccountLocks
	replier   Replier
	publisher utils.Publisher
	rng       roulette.IntSource
	log       *zap.Logger
	prefix    string
	timeout   time.Duration
	now       func() time.Time
}

func NewCasino(opts CasinoOptions) *Casino {
	c := &Casino{
		store:     opts.Store,
		engine:    opts.Engine,
		locks:     utils.NewAccountLocks(),
		replier:   opts.Replier,
		publisher: opts.Publisher,
		rng:       opts.Rand,
		log:       opts.Logger,
		prefix:    opts.Prefix,
		timeout:   opts.Timeout,
		now:       opts.Now,
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	if c.publisher == nil {
		c.publisher = utils.NopPublisher{}
	}
	if c.rng == nil {
		c.rng = roulette.NewRandomWheel(0)
	}
	if c.prefix == "" {
		c.prefix = "!"
	}
	if c.timeout <= 0 {
		c.timeout = 5 * time.Second
	}
	if c.now == nil {
		c.now = time.Now
	}
	c.ledger = utils.NewLedger(c.store, c.log)
	return c
}

// Ledger exposes the casino's ledger for the transport adapters.
func (c *Casino) Ledger() *utils.Ledger {
	return c.ledger
}

// HandleMessage processes one chat line end to end and sends any reply.
func (c *Casino) HandleMessage(ctx context.Context, msg ChatMessage) error {
	if msg.Bot || msg.AuthorID == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	content := strings.ToLower(strings.TrimSpace(msg.Content))
	tokens := strings.Split(content, " ")
	command := c.command(tokens[0])

	if command == "help" {
		return c.reply(ctx, msg, helpReply(msg.Username))
	}

	unlock := c.locks.Lock(msg.AuthorID)
	defer unlock()

	now := c.now()
	acc, created, err := utils.GetOrCreateAccount(ctx, c.store, msg.AuthorID, msg.Username, now)
	if err != nil {
		return c.fail(ctx, msg, "load account", err)
	}
	if created {
		c.log.Info("account created", zap.String("account", acc.ID), zap.String("username", msg.Username))
		// reply logs its own failure; the first message still counts.
		_ = c.reply(ctx, msg, welcomeReply(msg.Username))
	}

	decision := utils.Throttle(utils.ThrottleStateOf(acc), now)
	if acc, err = c.ledger.RecordThrottle(ctx, acc.ID, decision); err != nil {
		return c.fail(ctx, msg, "record throttle", err)
	}
	if !decision.Allow {
		if _, err := c.ledger.Penalize(ctx, acc.ID); err != nil {
			return c.fail(ctx, msg, "penalize", err)
		}
		c.log.Info("spam penalty", zap.String("account", acc.ID), zap.String("channel", msg.ChannelID))
		return c.reply(ctx, msg, spamReply(msg.Username))
	}

	switch command {
	case "play":
		return c.play(ctx, msg, acc, tokens[1:])
	case "bal", "balance":
		return c.reply(ctx, msg, balanceReply(msg.Username, acc.Points))
	case "history":
		if err := c.history(ctx, msg); err != nil {
			return err
		}
	}

	if _, err := c.ledger.GrantChatPoint(ctx, acc.ID); err != nil {
		return c.fail(ctx, msg, "grant chat point", err)
	}
	return nil
}

// command returns the command name without its prefix, or "".
func (c *Casino) command(token string) string {
	if !strings.HasPrefix(token, c.prefix) {
		return ""
	}
	return strings.TrimPrefix(token, c.prefix)
}

// play parses, resolves and settles one bet. With no arguments it plays a
// random bet at the minimum wager; with only an amount it picks the bet.
func (c *Casino) play(ctx context.Context, msg ChatMessage, acc *models.Account, args []string) error {
	switch len(args) {
	case 0:
		args = strings.Split(roulette.RandomCommand(c.rng, "100"), " ")
	case 1:
		args = strings.Split(roulette.RandomCommand(c.rng, args[0]), " ")
	}

	bet, err := roulette.ParseBet(args, acc.Points)
	if err != nil {
		return c.rejected(ctx, msg, err)
	}

	res, err := c.engine.Resolve(ctx, bet, acc.Points)
	if err != nil {
		if errors.Is(err, roulette.ErrCollaborator) {
			return c.fail(ctx, msg, "resolve bet", err)
		}
		return c.rejected(ctx, msg, err)
	}

	acc, err = c.ledger.Settle(ctx, acc.ID, res, c.now())
	if err != nil {
		return c.fail(ctx, msg, "settle bet", err)
	}

	event := utils.NewSpinResolved(acc.ID, msg.Username, res, acc.Points)
	if err := c.publisher.PublishSpin(ctx, event); err != nil {
		c.log.Warn("failed to publish spin", zap.String("spin_id", res.ID), zap.Error(err))
	}

	c.log.Info("bet resolved",
		zap.String("account", acc.ID),
		zap.String("bet", BetLabel(bet)),
		zap.Int64("wager", bet.Wager),
		zap.String("slot", SlotLabel(res.Slot)),
		zap.Bool("won", res.Won),
		zap.Int64("balance", acc.Points),
	)
	return c.reply(ctx, msg, resultReply(msg.Username, res))
}

func (c *Casino) history(ctx context.Context, msg ChatMessage) error {
	slots, err := c.engine.Recent(ctx, utils.HistoryDisplaySize)
	if err != nil {
		return c.fail(ctx, msg, "read history", err)
	}
	return c.reply(ctx, msg, historyReply(msg.Username, slots))
}

func (c *Casino) rejected(ctx context.Context, msg ChatMessage, err error) error {
	var rej *roulette.RejectionError
	if !errors.As(err, &rej) {
		return c.fail(ctx, msg, "parse bet", err)
	}
	utils.BetsRejected.WithLabelValues(rej.Kind.String()).Inc()
	c.log.Debug("bet rejected",
		zap.String("account", msg.AuthorID),
		zap.String("reason", rej.Kind.String()),
		zap.String("token", rej.Token),
	)
	return c.reply(ctx, msg, mention(msg.Username, rej.Message))
}

// fail logs a collaborator failure and tells the user. The command is
// dropped; nothing is retried.
func (c *Casino) fail(ctx context.Context, msg ChatMessage, op string, err error) error {
	c.log.Error("command failed",
		zap.String("op", op),
		zap.String("account", msg.AuthorID),
		zap.String("channel", msg.ChannelID),
		zap.Error(err),
	)
	if replyErr := c.reply(ctx, msg, failureReply(msg.Username)); replyErr != nil {
		c.log.Warn("failed to send failure reply", zap.Error(replyErr))
	}
	return err
}

func (c *Casino) reply(ctx context.Context, msg ChatMessage, text string) error {
	if err := c.replier.Reply(ctx, msg.ChannelID, text); err != nil {
		c.log.Warn("failed to send reply", zap.String("channel", msg.ChannelID), zap.Error(err))
		return err
	}
	return nil
}

// HandleJoin starts a watch session for the account.
func (c *Casino) HandleJoin(ctx context.Context, accountID, username string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	unlock := c.locks.Lock(accountID)
	defer unlock()

	now := c.now()
	if _, _, err := utils.GetOrCreateAccount(ctx, c.store, accountID, username, now); err != nil {
		return err
	}
	_, err := c.ledger.RecordJoin(ctx, accountID, now)
	return err
}

// HandleLeave closes the watch session and pays watch points.
func (c *Casino) HandleLeave(ctx context.Context, accountID, username string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	unlock := c.locks.Lock(accountID)
	defer unlock()

	now := c.now()
	if _, _, err := utils.GetOrCreateAccount(ctx, c.store, accountID, username, now); err != nil {
		return 0, err
	}
	granted, _, err := c.ledger.GrantWatchPoints(ctx, accountID, now)
	if err != nil {
		return 0, err
	}
	if granted > 0 {
		c.log.Info("watch points earned", zap.String("account", accountID), zap.Int64("points", granted))
	}
	return granted, nil
}
