package recipe

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Node 解析後的標記節點；選用節點查不到時回傳 nil
type Node struct {
	Name     string
	attrs    []xml.Attr
	children []*Node
	segments []segment
}

// segment 依文件順序保存文字或子節點
type segment struct {
	text  string
	child *Node
}

// ParseTree 將完整且格式正確的標記文件解析為樹，只允許單一根節點
func ParseTree(raw string) (*Node, error) {
	return parseTree(xml.NewDecoder(strings.NewReader(raw)))
}

// ParseLenientTree 容忍模型常見的裸 & 與 HTML 實體，其餘規則同 ParseTree
func ParseLenientTree(raw string) (*Node, error) {
	dec := xml.NewDecoder(strings.NewReader(escapeBareAmpersands(raw)))
	dec.Strict = false
	dec.Entity = xml.HTMLEntity
	return parseTree(dec)
}

func parseTree(dec *xml.Decoder) (*Node, error) {
	var root *Node
	var stack []*Node
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if root != nil && len(stack) == 0 {
				return nil, fmt.Errorf("unexpected second root element <%s>", t.Name.Local)
			}
			n := &Node{Name: t.Name.Local, attrs: t.Copy().Attr}
			if len(stack) == 0 {
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
				parent.segments = append(parent.segments, segment{child: n})
			}
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("unexpected end element </%s>", t.Name.Local)
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 {
				if strings.TrimSpace(string(t)) != "" {
					return nil, errors.New("text outside root element")
				}
				continue
			}
			top := stack[len(stack)-1]
			top.segments = append(top.segments, segment{text: string(t)})
		}
	}

	if root == nil {
		return nil, errors.New("no root element")
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("unclosed element <%s>", stack[len(stack)-1].Name)
	}
	return root, nil
}

// Attr 取得屬性值
func (n *Node) Attr(name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// Child 第一個同名的直接子節點
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Children 所有同名的直接子節點
func (n *Node) Children(name string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Find 深度優先尋找第一個同名的後代節點
func (n *Node) Find(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.children {
		if c.Name == name {
			return c
		}
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// Text 節點與所有後代的文字，依文件順序串接
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	n.writeText(&b)
	return b.String()
}

func (n *Node) writeText(b *strings.Builder) {
	for _, seg := range n.segments {
		if seg.child != nil {
			seg.child.writeText(b)
			continue
		}
		b.WriteString(seg.text)
	}
}

// blockElements 自成一行的子元素，其餘元素的文字併入當前行
var blockElements = map[string]bool{
	"note":       true,
	"variation":  true,
	"storage":    true,
	"ingredient": true,
	"step":       true,
}

// Lines 依換行切分文字，區塊子元素另起一行；回傳未清理的行
func (n *Node) Lines() []string {
	if n == nil {
		return nil
	}
	var lb lineBuilder
	lb.node(n)
	lb.flush()
	return lb.lines
}

type lineBuilder struct {
	lines []string
	cur   strings.Builder
}

func (lb *lineBuilder) flush() {
	lb.lines = append(lb.lines, lb.cur.String())
	lb.cur.Reset()
}

func (lb *lineBuilder) node(n *Node) {
	for _, seg := range n.segments {
		switch {
		case seg.child == nil:
			lb.text(seg.text)
		case blockElements[seg.child.Name]:
			lb.flush()
			lb.node(seg.child)
			lb.flush()
		default:
			lb.node(seg.child)
		}
	}
}

func (lb *lineBuilder) text(s string) {
	parts := strings.Split(s, "\n")
	lb.cur.WriteString(parts[0])
	for _, p := range parts[1:] {
		lb.flush()
		lb.cur.WriteString(p)
	}
}

const (
	cdataStart = "<![CDATA["
	cdataEnd   = "]]>"
)

// escapeBareAmpersands 將不屬於實體參照的 & 轉為 &amp;，CDATA 區段原樣保留
func escapeBareAmpersands(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 16)
	for i := 0; i < len(s); i++ {
		if strings.HasPrefix(s[i:], cdataStart) {
			end := strings.Index(s[i:], cdataEnd)
			if end < 0 {
				b.WriteString(s[i:])
				break
			}
			b.WriteString(s[i : i+end+len(cdataEnd)])
			i += end + len(cdataEnd) - 1
			continue
		}
		if s[i] == '&' && !isEntityRef(s[i+1:]) {
			b.WriteString("&amp;")
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// isEntityRef s 是否以 name; 、#123; 或 #x1F; 開頭
func isEntityRef(s string) bool {
	end := strings.IndexByte(s, ';')
	if end <= 0 || end > 32 {
		return false
	}
	ref := s[:end]
	if ref[0] == '#' {
		digits := ref[1:]
		isHex := false
		if strings.HasPrefix(digits, "x") || strings.HasPrefix(digits, "X") {
			digits = digits[1:]
			isHex = true
		}
		if digits == "" {
			return false
		}
		for _, r := range digits {
			if !isDigit(r, isHex) {
				return false
			}
		}
		return true
	}
	for i, r := range ref {
		letter := r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '_'
		if !letter && (i == 0 || !(r >= '0' && r <= '9' || r == '-' || r == '.')) {
			return false
		}
	}
	return true
}

func isDigit(r rune, hex bool) bool {
	if r >= '0' && r <= '9' {
		return true
	}
	return hex && (r >= 'a' && r <= 'f' || r >= 'A' && r <= 'F')
}

// bulletMarkers 行首可去除的項目符號
var bulletMarkers = []string{"-", "*", "•"}

// cleanLines 去除項目符號與空白，丟棄空行
func cleanLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		for _, m := range bulletMarkers {
			if strings.HasPrefix(line, m) {
				line = strings.TrimSpace(strings.TrimPrefix(line, m))
				break
			}
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
