package main

import (
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"unicode"

	"github.com/spf13/cobra"

	"ats-workers/pkg/registry"
)

var (
	scaffoldID  string
	scaffoldOut string
)

var registryScaffoldCmd = &cobra.Command{
	Use:   "scaffold",
	Short: "Generate a worker package skeleton from a registry activity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg, err := registry.LoadRegistry(registryPath)
		if err != nil {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		activity, ok := reg.FindByTaskType(scaffoldID)
		for i := range reg.Activities {
			if !ok && reg.Activities[i].ID == scaffoldID {
				activity, ok = &reg.Activities[i], true
			}
		}
		if !ok {
			return fmt.Errorf("activity %s not found", scaffoldID)
		}

		dir := scaffoldOut
		if dir == "" {
			dir = defaultWorkerDir(activity)
		}
		files, err := renderWorker(activity, packageName(dir))
		if err != nil {
			return err
		}

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		for _, name := range sortedKeys(files) {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "skipped %s (exists)\n", path)
				continue
			}
			if err := os.WriteFile(path, files[name], 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		}
		return nil
	},
}

func init() {
	f := registryScaffoldCmd.Flags()
	f.StringVar(&scaffoldID, "id", "", "activity ID or task type")
	f.StringVar(&scaffoldOut, "out", "", "output directory (default internal/workers/<category>/<name>)")
	_ = registryScaffoldCmd.MarkFlagRequired("id")
	registryCmd.AddCommand(registryScaffoldCmd)
}

// defaultWorkerDir maps ats.resume.parse to internal/workers/ats/resume-parse.
func defaultWorkerDir(a *registry.Activity) string {
	parts := strings.Split(a.ID, ".")
	name := strings.Join(parts[1:], "-")
	return filepath.Join("internal", "workers", a.Category, name)
}

func packageName(dir string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, filepath.Base(dir))
}

type scaffoldField struct {
	Name        string
	JSONName    string
	GoType      string
	SchemaType  string
	Description string
	Required    bool
}

type scaffoldData struct {
	Package        string
	Activity       *registry.Activity
	Input          []scaffoldField
	Output         []scaffoldField
	InputRequired  []string
	OutputRequired []string
}

func renderWorker(a *registry.Activity, pkg string) (map[string][]byte, error) {
	data := scaffoldData{Package: pkg, Activity: a}
	data.Input, data.InputRequired = schemaFields(a.InputSchema)
	data.Output, data.OutputRequired = schemaFields(a.OutputSchema)

	files := map[string][]byte{}
	for name, tmpl := range scaffoldTemplates {
		var b strings.Builder
		if err := tmpl.Execute(&b, data); err != nil {
			return nil, fmt.Errorf("render %s: %w", name, err)
		}
		src, err := format.Source([]byte(b.String()))
		if err != nil {
			return nil, fmt.Errorf("format %s: %w", name, err)
		}
		files[name] = src
	}
	return files, nil
}

func schemaFields(schema map[string]interface{}) ([]scaffoldField, []string) {
	required := map[string]bool{}
	var requiredList []string
	if req, ok := schema["required"].([]interface{}); ok {
		for _, r := range req {
			if s, ok := r.(string); ok {
				required[s] = true
				requiredList = append(requiredList, s)
			}
		}
	}

	props, _ := schema["properties"].(map[string]interface{})
	fields := make([]scaffoldField, 0, len(props))
	for name, raw := range props {
		prop, _ := raw.(map[string]interface{})
		schemaType, _ := prop["type"].(string)
		description, _ := prop["description"].(string)
		fields = append(fields, scaffoldField{
			Name:        exportedName(name),
			JSONName:    name,
			GoType:      goType(prop),
			SchemaType:  schemaType,
			Description: description,
			Required:    required[name],
		})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].JSONName < fields[j].JSONName })
	return fields, requiredList
}

func goType(prop map[string]interface{}) string {
	switch prop["type"] {
	case "string":
		return "string"
	case "integer":
		return "int"
	case "number":
		return "float64"
	case "boolean":
		return "bool"
	case "object":
		return "map[string]interface{}"
	case "array":
		if items, ok := prop["items"].(map[string]interface{}); ok && items["type"] != "array" {
			return "[]" + goType(items)
		}
		return "[]interface{}"
	default:
		return "interface{}"
	}
}

// exportedName turns candidateId into CandidateID.
func exportedName(name string) string {
	if name == "" {
		return name
	}
	out := strings.ToUpper(name[:1]) + name[1:]
	for _, initialism := range []string{"Id", "Url"} {
		if strings.HasSuffix(out, initialism) {
			out = strings.TrimSuffix(out, initialism) + strings.ToUpper(initialism)
		}
	}
	return out
}

func sortedKeys(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var scaffoldTemplates = map[string]*template.Template{
	"config.go":     template.Must(template.New("config").Parse(configTemplate)),
	"models.go":     template.Must(template.New("models").Parse(modelsTemplate)),
	"validation.go": template.Must(template.New("validation").Parse(validationTemplate)),
	"handler.go":    template.Must(template.New("handler").Parse(handlerTemplate)),
}

const configTemplate = `package {{ .Package }}

import (
	"fmt"
	"time"
)

type Config struct {
	Enabled bool          ` + "`mapstructure:\"enabled\"`" + `
	Timeout time.Duration ` + "`mapstructure:\"timeout\"`" + `
}

func DefaultConfig() *Config {
	return &Config{
		Enabled: true,
		Timeout: 30 * time.Second,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
`

const modelsTemplate = `package {{ .Package }}

type Input struct {
{{- range .Input }}
	{{ .Name }} {{ .GoType }} ` + "`json:\"{{ .JSONName }}{{ if not .Required }},omitempty{{ end }}\"`" + `
{{- end }}
}

type Output struct {
{{- range .Output }}
	{{ .Name }} {{ .GoType }} ` + "`json:\"{{ .JSONName }}{{ if not .Required }},omitempty{{ end }}\"`" + `
{{- end }}
}
`

const validationTemplate = `package {{ .Package }}

import "ats-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{ {{- range $i, $r := .InputRequired }}{{ if $i }}, {{ end }}{{ printf "%q" $r }}{{ end -}} },
		Properties: map[string]validation.Property{
{{- range .Input }}
			{{ printf "%q" .JSONName }}: {Type: {{ printf "%q" .SchemaType }}{{ if .Description }}, Description: {{ printf "%q" .Description }}{{ end }}},
{{- end }}
		},
		AdditionalProperties: true,
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{ {{- range $i, $r := .OutputRequired }}{{ if $i }}, {{ end }}{{ printf "%q" $r }}{{ end -}} },
		Properties: map[string]validation.Property{
{{- range .Output }}
			{{ printf "%q" .JSONName }}: {Type: {{ printf "%q" .SchemaType }}{{ if .Description }}, Description: {{ printf "%q" .Description }}{{ end }}},
{{- end }}
		},
		AdditionalProperties: false,
	}
}
`

const handlerTemplate = `package {{ .Package }}

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"ats-workers/internal/common/camunda"
	"ats-workers/internal/common/errors"
	"ats-workers/internal/common/logger"
	"ats-workers/internal/common/metrics"
	"ats-workers/internal/common/validation"
)

const TaskType = {{ printf "%q" .Activity.TaskType }}

type Handler struct {
	config       *Config
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, log logger.Logger) (*Handler, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		errorHandler: errors.NewErrorHandler(log),
		logger:       log,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := h.parseInput(job)
	if err == nil {
		var output *Output
		if output, err = h.Execute(ctx, input); err == nil {
			if err = camunda.CompleteJob(ctx, client, job, output); err != nil {
				h.logger.WithError(err).Error("failed to complete job", map[string]interface{}{"jobKey": job.Key})
				return
			}
			metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
			return
		}
	}

	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.AsStandardError(err).Code)).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, err)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, errors.NewInvalidJobVariablesError(err.Error())
	}
	if result := validation.ValidateInput(variables, GetInputSchema()); !result.Valid {
		return nil, errors.NewInvalidJobVariablesError(strings.Join(result.GetErrorMessages(), "; "))
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		return nil, errors.NewInvalidJobVariablesError(err.Error())
	}
	return &input, nil
}

// Execute runs {{ .Activity.DisplayName }}.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return nil, errors.NewInternalError(fmt.Errorf("%s is not implemented", TaskType))
}
`
