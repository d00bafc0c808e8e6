package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/streadway/amqp"

	"github.com/muhammadolammi/profiletracer/internal/assistant"
)

var errUnknownJobType = errors.New("unknown job type")

func decodeJob(body []byte) (Job, error) {
	var job Job
	if err := json.Unmarshal(body, &job); err != nil {
		return job, errors.Wrap(err, "error unmarshalling job")
	}
	job.Type = strings.ToLower(strings.TrimSpace(job.Type))
	if job.Type == "" {
		return job, errors.New("job without type")
	}
	return job, nil
}

// storedSkills returns the user's profile skills, or nil when the user has
// no profile yet.
func storedSkills(ctx context.Context, db UserStore, job Job) ([]string, error) {
	p, err := db.GetSkillProfile(ctx, job.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "error getting skill profile for user %s", job.UserID)
	}
	if p.Skills == nil {
		return []string{}, nil
	}
	return p.Skills, nil
}

func userIdentity(ctx context.Context, db UserStore, job Job) (assistant.UserIdentity, error) {
	u, err := db.GetUser(ctx, job.UserID)
	if err != nil {
		return assistant.UserIdentity{}, errors.Wrapf(err, "error getting user %s", job.UserID)
	}
	return assistant.UserIdentity{
		Name:    u.Name,
		Course:  u.Course,
		Branch:  u.Branch,
		Section: u.Section,
	}, nil
}

func declareExchange(ch *amqp.Channel) error {
	return ch.ExchangeDeclare(
		updateExchange, // name
		"topic",        // kind
		true,           // durable
		false,          // auto-delete
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
}

func publishUpdate(rabbitConn *amqp.Connection, update JobUpdate) error {
	ch, err := rabbitConn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	body, err := json.Marshal(update)
	if err != nil {
		return err
	}
	routingKey := fmt.Sprintf("user.%s", update.UserID)

	return ch.Publish(
		updateExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}
