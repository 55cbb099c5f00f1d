package reconcile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Kind 响应值的类型标签
type Kind int

const (
	KindNull Kind = iota
	KindScalar
	KindRecord
	KindList
)

// Value 结构化转写结果中的一个值
// LLM 返回的 JSON 是无模式的，值可能是字符串、嵌套对象或数组，
// 用带标签的联合类型表示，保证格式化过程不会 panic
type Value struct {
	Kind   Kind
	Scalar string
	Fields []Field // KindRecord 时按原始 JSON 顺序排列
	Items  []Value // KindList
}

// Field 记录中的一个键值对
type Field struct {
	Key   string
	Value Value
}

// Lookup 按键查找记录字段
func (v Value) Lookup(key string) (Value, bool) {
	for _, f := range v.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// decodeValue 从 json.Decoder 读取一个完整的值
// 使用 Token 流解析以保留对象键的出现顺序，encoding/json 的 map 解码会丢失顺序
func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return decodeFromToken(dec, tok)
}

func decodeFromToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			rec := Value{Kind: KindRecord}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("unexpected object key token: %v", keyTok)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				rec.Fields = append(rec.Fields, Field{Key: key, Value: val})
			}
			// 消费 '}'
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return rec, nil
		case '[':
			list := Value{Kind: KindList}
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				list.Items = append(list.Items, item)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return list, nil
		}
		return Value{}, fmt.Errorf("unexpected delimiter: %v", t)
	case string:
		return Value{Kind: KindScalar, Scalar: t}, nil
	case json.Number:
		return Value{Kind: KindScalar, Scalar: t.String()}, nil
	case bool:
		return Value{Kind: KindScalar, Scalar: fmt.Sprintf("%t", t)}, nil
	case nil:
		return Value{Kind: KindNull}, nil
	}
	return Value{}, fmt.Errorf("unexpected token: %v", tok)
}

// DecodeRecord 将 JSON 文本解析为顶层记录
func DecodeRecord(raw string) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	val, err := decodeValue(dec)
	if err != nil {
		return Value{}, err
	}
	if val.Kind != KindRecord {
		return Value{}, fmt.Errorf("expected JSON object, got kind %d", val.Kind)
	}
	return val, nil
}

// scalarForm 值的纯文本形式，列表按逗号拼接
func (v Value) scalarForm() string {
	switch v.Kind {
	case KindScalar:
		return v.Scalar
	case KindList:
		parts := make([]string, 0, len(v.Items))
		for _, item := range v.Items {
			parts = append(parts, item.scalarForm())
		}
		return strings.Join(parts, ",")
	case KindRecord:
		return FormatValue(v)
	}
	return ""
}
