// Package sheets appends lead rows to Google Sheets.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"learnly/config"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// ErrDisabled is returned when no Google credentials are configured.
var ErrDisabled = errors.New("sheets: disabled")

type Appender interface {
	AppendRow(ctx context.Context, spreadsheetID, rng string, values []interface{}) error
}

// Default is the process-wide appender used by lead delivery.
var Default Appender = Disabled{}

// Init builds the Sheets client from the configured credentials.
func Init(ctx context.Context, cfg *config.Config) error {
	opts := ClientOptions(cfg.GoogleCredentials)
	if len(opts) == 0 {
		Default = Disabled{}
		return nil
	}
	client, err := New(ctx, opts...)
	if err != nil {
		return err
	}
	Default = client
	return nil
}

// ClientOptions accepts either inline service account JSON or a file path.
func ClientOptions(creds string) []option.ClientOption {
	creds = strings.TrimSpace(creds)
	if creds == "" {
		return nil
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}

type Client struct {
	svc *gsheets.Service
}

func New(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	opts = append(opts, option.WithScopes(gsheets.SpreadsheetsScope))
	svc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: new service: %w", err)
	}
	return &Client{svc: svc}, nil
}

func (c *Client) AppendRow(ctx context.Context, spreadsheetID, rng string, values []interface{}) error {
	if spreadsheetID == "" {
		return errors.New("sheets: spreadsheet id required")
	}
	vr := &gsheets.ValueRange{Values: [][]interface{}{values}}
	_, err := c.svc.Spreadsheets.Values.Append(spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets: append: %w", err)
	}
	return nil
}

type Disabled struct{}

func (Disabled) AppendRow(context.Context, string, string, []interface{}) error {
	return ErrDisabled
}
