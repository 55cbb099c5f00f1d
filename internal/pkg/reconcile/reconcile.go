package reconcile

import (
	"regexp"
	"strings"
	"unicode"

	"k8s.io/klog/v2"

	"github.com/bonicascribe/backend/internal/model"
	"github.com/bonicascribe/backend/internal/utils"
)

const (
	// ReservedTranscriptKey 顶层原始转写文本的保留键，不参与分区匹配
	ReservedTranscriptKey = "originalTranscription"

	// PlainTranscriptField 只含该字段的记录按原文输出，
	// 用于希望逐字记录口述内容的分区（如问诊笔记）
	PlainTranscriptField = "transcripcion"

	// ErrorField 解析失败时返回的错误标记字段
	ErrorField = "error"
)

var codeFenceRe = regexp.MustCompile("```json\n|```")

// Parse 将 LLM 的原始输出解析为顶层记录
// 模型可能把 JSON 包在 markdown 代码块里，先剥掉围栏再解码。
// 解析失败时不抛出错误，返回只含 error 字段的记录，调用方照常走匹配流程
// （error 不会命中任何分区键），避免把异常扩散到上层状态
func Parse(raw string) Value {
	jsonStr := strings.TrimSpace(codeFenceRe.ReplaceAllString(raw, ""))
	rec, err := DecodeRecord(jsonStr)
	if err == nil {
		return rec
	}

	// 模型偶尔在 JSON 前后附加说明文字，截取配对完整的对象部分再试一次
	rec, retryErr := DecodeRecord(utils.ExtractJSON(jsonStr))
	if retryErr == nil {
		return rec
	}

	klog.V(6).Infof("解析结构化转写结果失败: %v", err)
	return Value{Kind: KindRecord, Fields: []Field{
		{Key: ErrorField, Value: Value{Kind: KindScalar, Scalar: "failed to parse structured output: " + err.Error()}},
	}}
}

// labelForKey 把 camelCase 键转成带空格的标签
// 内部大写字母前插入空格，首字母大写，如 nombreHospital -> Nombre Hospital
func labelForKey(key string) string {
	var b strings.Builder
	for i, r := range key {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		if i == 0 {
			r = unicode.ToUpper(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatValue 把响应值递归格式化为可读文本
// 标量直接输出；记录逐键输出 "标签: 值"，空值整行省略；
// 嵌套记录在 "标签:" 头下缩进两个空格；
// 只含 transcripcion 字段的记录直接输出该字段原文
func FormatValue(v Value) string {
	switch v.Kind {
	case KindNull:
		return ""
	case KindScalar:
		return v.Scalar
	case KindList:
		return v.scalarForm()
	}

	if len(v.Fields) == 1 && v.Fields[0].Key == PlainTranscriptField {
		return v.Fields[0].Value.scalarForm()
	}

	var lines []string
	for _, f := range v.Fields {
		label := labelForKey(f.Key)
		if f.Value.Kind == KindRecord {
			nested := indent(FormatValue(f.Value))
			lines = append(lines, label+":\n"+nested)
			continue
		}
		if s := f.Value.scalarForm(); s != "" {
			lines = append(lines, label+": "+s)
		}
	}
	return strings.Join(lines, "\n")
}

func indent(s string) string {
	parts := strings.Split(s, "\n")
	for i, p := range parts {
		parts[i] = "  " + p
	}
	return strings.Join(parts, "\n")
}

// Result 一次回填的结果
type Result struct {
	Changed     bool
	Transcript  string   // 原始转写全文，供展示/复制，不写入任何分区
	UpdatedKeys []string // 内容被替换的分区键
}

// Apply 把结构化转写结果按分区键合并进表单
// 未知键直接忽略（不隐式创建分区）；格式化结果为空或与现有内容相同时
// 分区保持原样，因此对同一结果重复回填是幂等的。
// 每个分区要么被完整替换要么不动，不存在部分合并的中间态
func Apply(form *model.Form, response Value) Result {
	var result Result
	if response.Kind != KindRecord {
		return result
	}

	if transcript, ok := response.Lookup(ReservedTranscriptKey); ok {
		result.Transcript = transcript.scalarForm()
	}

	for _, field := range response.Fields {
		if field.Key == ReservedTranscriptKey {
			continue
		}
		for i := range form.Sections {
			if form.Sections[i].SectionKey != field.Key {
				continue
			}
			newContent := FormatValue(field.Value)
			if newContent != "" && form.Sections[i].Content != newContent {
				form.Sections[i].Content = newContent
				result.Changed = true
				result.UpdatedKeys = append(result.UpdatedKeys, field.Key)
			}
			break
		}
	}
	return result
}
