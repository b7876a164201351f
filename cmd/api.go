package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/desertthunder/wandrix/internal/services"
	"github.com/desertthunder/wandrix/internal/shared"
	"github.com/desertthunder/wandrix/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Health checks the API. With --all it probes every status endpoint.
func (r *Runner) Health(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("all") {
		return r.probe(ctx, cmd.Bool("json"))
	}

	res, err := r.client.Health(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	var status services.HealthStatus
	if err := res.Decode(&status); err != nil {
		return err
	}

	if cmd.Bool("json") {
		if err := r.writeJSON(status, true); err != nil {
			return err
		}
	} else {
		r.writePlain("%s: %s (%s)\n", r.api.BaseURL(), status.Status, status.Message)
	}
	if !res.OK() {
		return fmt.Errorf("%w: %s", shared.ErrServiceUnavailable, res.ErrorMessage())
	}
	return nil
}

func (r *Runner) probe(ctx context.Context, quiet bool) error {
	progress := make(chan tasks.ProgressUpdate, 8)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progress {
			if !quiet {
				r.writePlain("[%d/%d] %s\n", update.Step, update.Total, update.Message)
			}
		}
	}()

	result, err := tasks.Probe(ctx, r.api, progress)
	close(progress)
	wg.Wait()
	if err != nil {
		return err
	}

	if quiet {
		if err := r.writeJSON(result, true); err != nil {
			return err
		}
	} else {
		r.writePlainHeader("API status")
		for _, section := range []struct {
			title string
			data  any
		}{{"Health", result.Health}, {"Database", result.Database}, {"Popular", result.Popular}} {
			if section.data == nil {
				continue
			}
			r.writePlain("%s:\n", section.title)
			r.writeJSON(section.data, true)
		}
	}

	if result.OK() {
		return nil
	}
	for _, e := range result.Errors {
		r.logger.Error("endpoint failed", "endpoint", e.Endpoint, "error", e.Error)
	}
	return fmt.Errorf("%w: %d endpoints failed", shared.ErrServiceUnavailable, len(result.Errors))
}

// APIGet makes a direct GET request to the travel API
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}

	r.logger.Debug("GET request", "path", path)

	resp, err := r.api.Get(ctx, path)
	if err != nil {
		return err
	}
	return r.writeResponse(resp, !cmd.Bool("json"))
}

// APIPost makes a direct POST request to the travel API
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	data := cmd.String("data")

	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}
	if data == "" {
		return fmt.Errorf("%w: --data flag is required", shared.ErrMissingArgument)
	}
	if !json.Valid([]byte(data)) {
		return fmt.Errorf("%w: data is not valid JSON", shared.ErrInvalidInput)
	}

	r.logger.Debug("POST request", "path", path)

	resp, err := r.api.Post(ctx, path, []byte(data))
	if err != nil {
		return err
	}
	return r.writeResponse(resp, true)
}

// writeResponse prints the body, then reports a non-2xx status as an error.
func (r *Runner) writeResponse(resp *services.APIResponse, pretty bool) error {
	if resp.IsJSON {
		if err := r.writeJSON(resp.JSONData, pretty); err != nil {
			return err
		}
	} else {
		r.output.Write(resp.Body)
		r.output.Write([]byte("\n"))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", shared.ErrRemote, resp.StatusCode)
	}
	return nil
}
