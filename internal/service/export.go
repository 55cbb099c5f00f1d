package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/bonicascribe/backend/internal/model"
)

// ExportResult 导出结果
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService 表单导出服务接口
type ExportService interface {
	// ExportDoc 导出为 Word 可打开的 HTML 文档
	ExportDoc(ctx context.Context, userID, formID uint) (*ExportResult, error)
	// ExportText 导出为纯文本，用于复制到病历系统
	ExportText(ctx context.Context, userID, formID uint) (string, error)
}

type exportService struct {
	forms FormService
}

// NewExportService 创建服务实例
func NewExportService(forms FormService) ExportService {
	return &exportService{forms: forms}
}

// Word 通过 MSO 命名空间识别 HTML 文档，.doc 扩展名 + msword MIME 即可直接打开
var docTemplate = template.Must(template.New("doc").Parse(`<html xmlns:o="urn:schemas-microsoft-com:office:office" xmlns:w="urn:schemas-microsoft-com:office:word" xmlns="http://www.w3.org/TR/REC-html40">
<head>
<meta charset="utf-8">
<title>{{.Name}}</title>
<style>
body { font-family: Calibri, Arial, sans-serif; font-size: 11pt; }
h1 { font-size: 16pt; }
h2 { font-size: 12pt; border-bottom: 1px solid #999; }
.summary { font-style: italic; color: #444; margin-top: 4pt; }
pre { font-family: inherit; white-space: pre-wrap; margin: 0; }
</style>
</head>
<body>
<h1>{{.Name}}</h1>
{{range .Sections}}<h2>{{.Title}}</h2>
<pre>{{.Content}}</pre>
{{if .Summary}}<pre class="summary">{{.Summary}}</pre>
{{end}}{{end}}</body>
</html>
`))

// ExportDoc 渲染整个表单为 Word 文档
func (s *exportService) ExportDoc(ctx context.Context, userID, formID uint) (*ExportResult, error) {
	form, err := s.forms.Get(ctx, userID, formID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := docTemplate.Execute(&buf, form); err != nil {
		return nil, fmt.Errorf("failed to render document: %w", err)
	}

	return &ExportResult{
		Filename:    exportFilename(form),
		ContentType: "application/msword",
		Data:        buf.Bytes(),
	}, nil
}

// ExportText 纯文本投影：表单名 + 逐分区的标题/内容/摘要
func (s *exportService) ExportText(ctx context.Context, userID, formID uint) (string, error) {
	form, err := s.forms.Get(ctx, userID, formID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(form.Name + "\n")
	for i := range form.Sections {
		sec := &form.Sections[i]
		b.WriteString("\n== " + sec.Title + " ==\n")
		if sec.Content != "" {
			b.WriteString(sec.Content + "\n")
		}
		if sec.Summary != "" {
			b.WriteString(sec.Summary + "\n")
		}
	}
	return b.String(), nil
}

// exportFilename 文件名里的非法字符替换为下划线
func exportFilename(form *model.Form) string {
	name := form.Name
	if name == "" {
		name = "formulario"
	}
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	return replacer.Replace(name) + ".doc"
}
