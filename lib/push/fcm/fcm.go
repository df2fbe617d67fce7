package fcm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gradewatch-backend/lib/push"
	"gradewatch-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("push/fcm")

const defaultEndpoint = "https://fcm.googleapis.com/fcm/send"

type Config struct {
	ServerKey string `json:"server_key"`
	// overridable for testing, defaults to the fcm send endpoint
	Endpoint string `json:"endpoint"`
}

type Notifier struct {
	http     *resty.Client
	endpoint string
}

func NewNotifier(config Config) *Notifier {
	endpoint := config.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	client := resty.New()
	client.SetHeader("authorization", fmt.Sprintf("key=%s", config.ServerKey))
	client.SetHeader("content-type", "application/json")
	client.SetTimeout(time.Second * 15)

	telemetry.InstrumentResty(client, "push/fcm/http")

	return &Notifier{
		http:     client,
		endpoint: endpoint,
	}
}

type message struct {
	To           string            `json:"to"`
	Notification messagePayload    `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

type messagePayload struct {
	Title          string `json:"title"`
	Body           string `json:"body"`
	AndroidChannel string `json:"android_channel_id,omitempty"`
}

type sendResponse struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
	Results []struct {
		Error string `json:"error"`
	} `json:"results"`
}

func (n *Notifier) Send(ctx context.Context, token string, notification push.Notification) error {
	ctx, span := tracer.Start(ctx, "notifier:Send")
	defer span.End()

	res, err := n.http.R().
		SetContext(ctx).
		SetBody(message{
			To: token,
			Notification: messagePayload{
				Title:          notification.Title,
				Body:           notification.Body,
				AndroidChannel: notification.AndroidChannel,
			},
			Data: notification.Data,
		}).
		Post(n.endpoint)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to reach fcm")
		return err
	}
	if res.StatusCode() < 200 || res.StatusCode() >= 300 {
		err := fmt.Errorf("fcm returned status %d", res.StatusCode())
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	var body sendResponse
	err = json.Unmarshal(res.Body(), &body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse fcm response")
		return err
	}

	for _, result := range body.Results {
		if result.Error == "NotRegistered" || result.Error == "InvalidRegistration" {
			span.SetStatus(codes.Error, result.Error)
			return push.ErrInvalidToken
		}
		if result.Error != "" {
			err := fmt.Errorf("fcm delivery failed: %s", result.Error)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
	}
	return nil
}
