package main

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"

	"github.com/muhammadolammi/profiletracer/internal/logger"
)

var jobStartedMessages = map[string]string{
	JobExtractProfile: "skill extraction started",
	JobChat:           "chat started",
	JobRoles:          "job role lookup started",
	JobSuggestions:    "job suggestion lookup started",
	JobResumeContent:  "resume drafting started",
	JobModelStatus:    "model check started",
	JobResetChat:      "conversation reset started",
}

// handleJob runs one job and returns the value published with its
// completed update.
func (workerConfig *WorkerConfig) handleJob(ctx context.Context, job Job) (any, error) {
	switch job.Type {
	case JobExtractProfile:
		return workerConfig.Profiles.Rebuild(ctx, job.UserID)

	case JobChat:
		return workerConfig.Dispatcher.Chat(ctx, job.UserID, job.Message)

	case JobRoles:
		skills, err := workerConfig.jobSkills(ctx, job)
		if err != nil {
			return nil, err
		}
		// no skills at all still asks the model for generic roles
		return JobRolesResult{Jobs: workerConfig.Advisor.JobRoles(ctx, skills)}, nil

	case JobSuggestions:
		skills, err := workerConfig.jobSkills(ctx, job)
		if err != nil {
			return nil, err
		}
		return JobSuggestionsResult{JobSuggestions: workerConfig.Advisor.JobSuggestions(ctx, skills)}, nil

	case JobResumeContent:
		user, err := userIdentity(ctx, workerConfig.DB, job)
		if err != nil {
			return nil, err
		}
		skills, err := storedSkills(ctx, workerConfig.DB, job)
		if err != nil {
			return nil, err
		}
		return workerConfig.Advisor.ResumeContent(ctx, skills, user), nil

	case JobModelStatus:
		timeout := workerConfig.ModelCheckTimeout
		if job.TimeoutMS > 0 {
			timeout = time.Duration(job.TimeoutMS) * time.Millisecond
		}
		return ModelStatusResult{AIAvailable: workerConfig.Models.Available(ctx, timeout)}, nil

	case JobResetChat:
		if workerConfig.Mascot == nil {
			return nil, nil
		}
		return nil, workerConfig.Mascot.Reset(ctx, job.UserID.String())
	}
	return nil, errors.Wrap(errUnknownJobType, job.Type)
}

func (workerConfig *WorkerConfig) processMessage(ctx context.Context, body []byte) {
	job, err := decodeJob(body)
	if err != nil {
		logger.G(ctx).WithError(err).Warn("dropping malformed job")
		if job.UserID != uuid.Nil {
			workerConfig.notify(ctx, job, StatusFailed, "job rejected", nil, err)
		}
		return
	}

	ctx = logger.WithFields(ctx, logrus.Fields{
		"job_id":   job.ID,
		"job_type": job.Type,
		"user_id":  job.UserID,
	})
	log := logger.G(ctx)
	log.Info("processing job")

	started, ok := jobStartedMessages[job.Type]
	if !ok {
		started = "job started"
	}
	workerConfig.notify(ctx, job, StatusProcessing, started, nil, nil)

	begin := time.Now()
	result, err := workerConfig.handleJob(ctx, job)
	if err != nil {
		log.WithError(err).Error("job failed")
		workerConfig.notify(ctx, job, StatusFailed, "job failed", nil, err)
		return
	}

	log.WithField("duration", time.Since(begin)).Info("job completed")
	workerConfig.notify(ctx, job, StatusCompleted, "job completed", result, nil)
}

func (workerConfig *WorkerConfig) notify(ctx context.Context, job Job, status, message string, result any, jobErr error) {
	update := JobUpdate{
		JobID:     job.ID,
		UserID:    job.UserID,
		Type:      job.Type,
		Status:    status,
		Message:   message,
		Result:    result,
		Timestamp: time.Now(),
	}
	if jobErr != nil {
		update.Error = jobErr.Error()
	}

	publish := workerConfig.Publish
	if publish == nil {
		publish = func(u JobUpdate) error { return publishUpdate(workerConfig.RabbitConn, u) }
	}
	if err := publish(update); err != nil {
		logger.G(ctx).WithError(err).WithField("status", status).Warn("failed to publish update")
	}
}

func worker(ctx context.Context, id int, workerConfig *WorkerConfig, wg *sync.WaitGroup) {
	defer wg.Done()
	ctx = logger.WithFields(ctx, logrus.Fields{"worker": id + 1})
	log := logger.G(ctx)

	// each worker consumes on its own connection
	conn, err := amqp.Dial(workerConfig.RABBITMQUrl)
	if err != nil {
		log.WithError(err).Fatal("error dialling rabbitmq")
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.WithError(err).Fatal("error connecting to rabbitmq channel")
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		jobsQueue, // queue name
		true,      // durable (survives broker restarts)
		false,     // auto-delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		log.WithError(err).Fatal("failed to declare queue")
	}
	if err := declareExchange(ch); err != nil {
		log.WithError(err).Fatal("failed to declare update exchange")
	}

	msgs, err := ch.Consume(
		jobsQueue, // queue name
		"",        // consumer tag
		true,      // auto-ack
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		log.WithError(err).Fatal("error consuming rabbitmq message")
	}

	log.Info("worker started")
	for {
		select {
		case <-ctx.Done():
			log.Info("worker stopping")
			return
		case msg, ok := <-msgs:
			if !ok {
				log.Warn("delivery channel closed")
				return
			}
			workerConfig.processMessage(ctx, msg.Body)
		}
	}
}

// StartConsumerWorkerPool runs numWorkers consumers until ctx is done.
func (workerConfig *WorkerConfig) StartConsumerWorkerPool(ctx context.Context, numWorkers int) {
	var wg sync.WaitGroup
	wg.Add(numWorkers)

	for i := range numWorkers {
		go worker(ctx, i, workerConfig, &wg)
	}
	wg.Wait() // block until all workers finish
}

// jobSkills prefers the skills sent with the job and falls back to the
// stored profile.
func (workerConfig *WorkerConfig) jobSkills(ctx context.Context, job Job) ([]string, error) {
	if skills := cleanSkills(job.Skills); len(skills) > 0 {
		return skills, nil
	}
	return storedSkills(ctx, workerConfig.DB, job)
}

func cleanSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
