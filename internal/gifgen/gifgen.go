// Package gifgen turns a text prompt into a short looping GIF by generating
// two AI image frames and stitching them into an animation.
package gifgen

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"time"

	xdraw "golang.org/x/image/draw"

	"wutzup/functions/internal/config"
)

const maxFrameDownloadBytes = 8 << 20

// frameVariants are appended to the user prompt so the two generated images
// differ enough to read as motion when looped.
var frameVariants = []string{
	"first frame",
	"second frame, slight variation",
}

type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

type Pipeline struct {
	generator  ImageGenerator
	httpClient *http.Client
	frameSize  int
	frameDelay time.Duration
}

func NewPipeline(generator ImageGenerator, httpClient *http.Client, cfg config.Config) Pipeline {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	frameSize := cfg.GIFFrameSize
	if frameSize <= 0 {
		frameSize = 512
	}
	frameDelay := cfg.GIFFrameDelay
	if frameDelay <= 0 {
		frameDelay = 500 * time.Millisecond
	}
	return Pipeline{
		generator:  generator,
		httpClient: httpClient,
		frameSize:  frameSize,
		frameDelay: frameDelay,
	}
}

// GenerateAnimation renders every frame, assembles the looping GIF into a
// temp file, and returns its path along with the frame count. Any failed
// frame aborts the whole animation.
func (p Pipeline) GenerateAnimation(ctx context.Context, prompt string) (string, int, error) {
	if p.generator == nil {
		return "", 0, errors.New("image generator is not configured")
	}

	frames := make([]*image.Paletted, 0, len(frameVariants))
	for _, variant := range frameVariants {
		framePrompt := fmt.Sprintf("%s, %s", prompt, variant)
		imageURL, err := p.generator.GenerateImage(ctx, framePrompt)
		if err != nil {
			return "", 0, fmt.Errorf("generate frame %d: %w", len(frames)+1, err)
		}

		frame, err := p.downloadFrame(ctx, imageURL)
		if err != nil {
			return "", 0, fmt.Errorf("download frame %d: %w", len(frames)+1, err)
		}
		frames = append(frames, p.palettize(p.resize(frame)))
	}

	path, err := p.encode(frames)
	if err != nil {
		return "", 0, err
	}
	return path, len(frames), nil
}

// Cleanup removes a previously generated animation file. Missing files are
// not an error.
func Cleanup(path string) {
	if path == "" {
		return
	}
	_ = os.Remove(path)
}

func (p Pipeline) downloadFrame(ctx context.Context, imageURL string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("frame download returned %d", resp.StatusCode)
	}

	decoded, _, err := image.Decode(io.LimitReader(resp.Body, maxFrameDownloadBytes))
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	return decoded, nil
}

func (p Pipeline) resize(src image.Image) image.Image {
	bounds := src.Bounds()
	if bounds.Dx() == p.frameSize && bounds.Dy() == p.frameSize {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, p.frameSize, p.frameSize))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func (p Pipeline) palettize(src image.Image) *image.Paletted {
	bounds := src.Bounds()
	paletted := image.NewPaletted(bounds, palette.Plan9)
	draw.FloydSteinberg.Draw(paletted, bounds, src, bounds.Min)
	return paletted
}

func (p Pipeline) encode(frames []*image.Paletted) (string, error) {
	delayHundredths := int(p.frameDelay / (10 * time.Millisecond))
	animation := gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		animation.Image = append(animation.Image, frame)
		animation.Delay = append(animation.Delay, delayHundredths)
	}

	out, err := os.CreateTemp("", "wutzup-gif-*.gif")
	if err != nil {
		return "", fmt.Errorf("create temp gif: %w", err)
	}

	if err := gif.EncodeAll(out, &animation); err != nil {
		out.Close()
		_ = os.Remove(out.Name())
		return "", fmt.Errorf("encode gif: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(out.Name())
		return "", err
	}
	return out.Name(), nil
}
