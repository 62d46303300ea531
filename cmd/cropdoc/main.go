// Command cropdoc captures a frame, crops it to the guide box, and submits
// it for diagnosis. It stands in for the mobile client against a running
// cropdocd.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/adjeikofi/cropdoc"
	"github.com/adjeikofi/cropdoc/internal/camera"
	"github.com/adjeikofi/cropdoc/internal/imaging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	server       string
	token        string
	cameraDir    string
	name         string
	plantType    string
	screenWidth  float64
	screenHeight float64
	wait         time.Duration
}

func run(ctx context.Context, stdout io.Writer, args []string) error {
	fs := flag.NewFlagSet("cropdoc", flag.ContinueOnError)
	fs.SetOutput(stdout)

	var opts options
	fs.StringVar(&opts.server, "server", "http://localhost:8080", "cropdocd base URL")
	fs.StringVar(&opts.token, "token", os.Getenv("CROPDOC_TOKEN"), "session token (defaults to CROPDOC_TOKEN)")
	fs.StringVar(&opts.cameraDir, "camera", "./frames", "directory the file camera reads frames from")
	fs.StringVar(&opts.name, "name", "", "display name for the image")
	fs.StringVar(&opts.plantType, "plant", "", "plant type (see -categories)")
	fs.Float64Var(&opts.screenWidth, "screen-width", 390, "screen width the guide box is framed against")
	fs.Float64Var(&opts.screenHeight, "screen-height", 844, "screen height the guide box is framed against")
	fs.DurationVar(&opts.wait, "wait", 0, "poll for the diagnosis up to this long after upload")
	categories := fs.Bool("categories", false, "list plant types and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *categories {
		for _, c := range cropdoc.PlantCategories {
			fmt.Fprintln(stdout, c)
		}
		return nil
	}

	if opts.token == "" {
		return fmt.Errorf("a session token is required (set CROPDOC_TOKEN or pass -token)")
	}

	// Validate before touching the camera so a typo fails fast.
	var category *cropdoc.PlantCategory
	if opts.plantType != "" {
		parsed, err := cropdoc.ParsePlantCategory(opts.plantType)
		if err != nil {
			return err
		}
		category = &parsed
	}
	sub, err := cropdoc.ValidateSubmission(opts.name, category)
	if err != nil {
		return err
	}

	cam := camera.NewFileCamera(opts.cameraDir)
	captured, err := cam.Capture(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "captured %dx%d frame (%d bytes)\n",
		captured.NativeWidth, captured.NativeHeight, len(captured.Data))

	cropped, err := imaging.CropToGuideBox(captured, opts.screenWidth, opts.screenHeight)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "cropped to guide box: %dx%d (%d bytes)\n",
		cropped.Width, cropped.Height, len(cropped.Data))

	client := &http.Client{Timeout: 30 * time.Second}

	record, err := submit(ctx, client, &opts, sub, cropped.Data)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "uploaded: id=%s key=%s\n", record.ID, record.StorageKey)

	if opts.wait > 0 {
		text, err := awaitDiagnosis(ctx, client, &opts, record.ID.String())
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "\n%s\n", text)
	}

	return nil
}

// submit posts the cropped image, retrying transient failures with
// exponential backoff.
func submit(ctx context.Context, client *http.Client, opts *options, sub *cropdoc.ValidatedSubmission, imageData []byte) (*cropdoc.UploadRecord, error) {
	backoff := retry.WithMaxRetries(5, retry.NewExponential(time.Second))

	var record cropdoc.UploadRecord
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		if err := writer.WriteField("name", sub.Name); err != nil {
			return err
		}
		if err := writer.WriteField("plant_type", string(sub.PlantType)); err != nil {
			return err
		}
		part, err := writer.CreatePart(map[string][]string{
			"Content-Disposition": {`form-data; name="image"; filename="capture.jpg"`},
			"Content-Type":        {cropdoc.ImageContentType},
		})
		if err != nil {
			return err
		}
		if _, err := part.Write(imageData); err != nil {
			return err
		}
		if err := writer.Close(); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, opts.server+"/api/uploads", body)
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", writer.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+opts.token)

		resp, err := client.Do(req)
		if err != nil {
			// Network failures are worth retrying
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusCreated:
			return json.NewDecoder(resp.Body).Decode(&record)
		case resp.StatusCode >= 500:
			return retry.RetryableError(fmt.Errorf("server error: %s", resp.Status))
		default:
			return apiError(resp)
		}
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// awaitDiagnosis polls the diagnosis endpoint until the worker produces a
// result or the wait budget runs out.
func awaitDiagnosis(ctx context.Context, client *http.Client, opts *options, uploadID string) (string, error) {
	backoff := retry.WithMaxDuration(opts.wait, retry.NewConstant(2*time.Second))

	var text string
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet,
			fmt.Sprintf("%s/api/uploads/%s/diagnosis", opts.server, uploadID), nil)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+opts.token)

		resp, err := client.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			if resp.StatusCode >= 500 {
				return retry.RetryableError(fmt.Errorf("server error: %s", resp.Status))
			}
			return apiError(resp)
		}

		var payload struct {
			Available bool `json:"available"`
			Diagnosis *struct {
				Text string `json:"text"`
			} `json:"diagnosis"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return err
		}
		if !payload.Available || payload.Diagnosis == nil {
			return retry.RetryableError(fmt.Errorf("diagnosis not ready"))
		}

		text = payload.Diagnosis.Text
		return nil
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

// apiError turns a non-retryable error response into a readable message.
func apiError(resp *http.Response) error {
	var body struct {
		Error   string            `json:"error"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Message == "" {
		return fmt.Errorf("request failed: %s", resp.Status)
	}
	if len(body.Fields) > 0 {
		msg := body.Message
		for field, detail := range body.Fields {
			msg += fmt.Sprintf("\n  %s: %s", field, detail)
		}
		return fmt.Errorf("%s", msg)
	}
	return fmt.Errorf("%s", body.Message)
}
