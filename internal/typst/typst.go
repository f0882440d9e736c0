package typst

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/invixio/invixio/internal/config"
	ierr "github.com/invixio/invixio/internal/errors"
	"github.com/invixio/invixio/internal/logger"
)

// Compiler renders typst templates to PDF by shelling out to the typst
// binary.
type Compiler interface {
	CompileTemplate(templateName string, data []byte, outputFile string) ([]byte, error)
}

type compiler struct {
	logger *logger.Logger
	// Path to the typst binary
	binaryPath string
	// Directory where fonts are stored
	fontDir string
	// Directory where templates are stored
	templateDir string
	// Directory for output files
	outputDir string
}

// NewCompiler creates a typst compiler from configuration
func NewCompiler(cfg *config.Configuration, logger *logger.Logger) Compiler {
	c := &compiler{
		logger:      logger,
		binaryPath:  cfg.Pdf.TypstBinaryPath,
		fontDir:     cfg.Pdf.FontDir,
		templateDir: cfg.Pdf.TemplateDir,
		outputDir:   cfg.Pdf.OutputDir,
	}
	if c.binaryPath == "" {
		c.binaryPath = "typst"
	}
	if c.outputDir == "" {
		c.outputDir = os.TempDir()
	}
	return c
}

// CompileTemplate compiles a typst template against a JSON payload. The
// template reads the payload via
//
//	#let invoice = json(sys.inputs.path)
//
// and the returned bytes are the finished PDF. Temporary files are removed
// before returning.
func (c *compiler) CompileTemplate(templateName string, data []byte, outputFile string) ([]byte, error) {
	templatePath := filepath.Join(c.templateDir, templateName)
	if _, err := os.Stat(templatePath); os.IsNotExist(err) {
		return nil, ierr.WithError(err).
			WithMessagef("template not found: %s", templatePath).
			WithHint("template error").Mark(ierr.ErrSystem)
	}

	jsonPath := filepath.Join(c.outputDir, fmt.Sprintf("typst-%d.json", time.Now().UnixMilli()))
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return nil, ierr.WithError(err).
			WithMessage("failed to write template payload").
			WithHint("template error").Mark(ierr.ErrSystem)
	}
	defer os.Remove(jsonPath)

	outputPath := filepath.Join(c.outputDir, outputFile)
	defer os.Remove(outputPath)

	args := []string{"compile", "--root", "/"}
	if c.fontDir != "" {
		args = append(args, "--font-path", c.fontDir)
	}
	args = append(args, "--input", fmt.Sprintf("path=%s", jsonPath))
	args = append(args, templatePath, outputPath)

	cmd := exec.Command(c.binaryPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, ierr.WithError(err).
			WithMessage("typst compilation failed").
			WithHint("typst error").
			WithReportableDetails(map[string]any{
				"stderr": stderr.String(),
			}).
			Mark(ierr.ErrSystem)
	}

	pdf, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, ierr.WithError(err).
			WithMessage("failed to read compiled output").
			WithHint("typst error").Mark(ierr.ErrSystem)
	}
	return pdf, nil
}
