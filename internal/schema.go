package internal

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/zarianw/parquet-cpp/format"
)

// スキーマツリーと、フッターに書かれるフラットなスキーマ表現を扱うための一連の構造体
type (
	// スキーマツリーの1ノード
	// Type が nil ならグループ(中間ノード)、そうでなければリーフとして扱う
	Node struct {
		Name           string
		Type           *format.Type
		TypeLength     *int32
		RepetitionType *format.FieldRepetitionType
		ConvertedType  *format.ConvertedType
		Children       []*Node
	}

	// 1つのリーフ列を指す記述子
	// パスはルート直下からリーフまでの名前の列で、列チャンクの path_in_schema と一致する
	ColumnDescriptor struct {
		node *Node
		path []string
	}

	// スキーマツリー全体
	// columns はリーフを行き掛け順に集めたもので、この並びがそのまま列インデックスになる
	Schema struct {
		root    *Node
		columns []*ColumnDescriptor
	}
)

// グループノードを生成する。子の並び順は列インデックスの順序を決めるため保持される
func NewGroupNode(name string, repetition format.FieldRepetitionType, children ...*Node) *Node {
	return &Node{Name: name, RepetitionType: &repetition, Children: children}
}

// リーフノードを生成する
func NewPrimitiveNode(name string, repetition format.FieldRepetitionType, typ format.Type) *Node {
	return &Node{Name: name, Type: &typ, RepetitionType: &repetition}
}

func (n *Node) IsLeaf() bool {
	return n.Type != nil
}

func (c *ColumnDescriptor) PhysicalType() format.Type {
	return *c.node.Type
}

func (c *ColumnDescriptor) Name() string {
	return c.node.Name
}

func (c *ColumnDescriptor) Path() []string {
	return c.path
}

// パスをドット区切りで結合した表現。列指定の検索キーとして使う
func (c *ColumnDescriptor) DotPath() string {
	return strings.Join(c.path, ".")
}

// ルートノードからスキーマを構築し、リーフを行き掛け順に列として採番する
func NewSchema(root *Node) *Schema {
	s := &Schema{root: root}
	for _, child := range root.Children {
		s.collectColumns(child, nil)
	}
	return s
}

func (s *Schema) collectColumns(n *Node, path []string) {
	// ルート名はパスに含めない(path_in_schema の慣習に合わせる)
	path = append(path[:len(path):len(path)], n.Name)

	if n.IsLeaf() {
		s.columns = append(s.columns, &ColumnDescriptor{node: n, path: path})
		return
	}
	for _, child := range n.Children {
		s.collectColumns(child, path)
	}
}

func (s *Schema) Root() *Node {
	return s.root
}

func (s *Schema) NumColumns() int {
	return len(s.columns)
}

// i 番目のリーフ列の記述子を返す。範囲外アクセスは呼び出し側のバグ
func (s *Schema) Column(i int) *ColumnDescriptor {
	return s.columns[i]
}

// スキーマツリーを行き掛け順にフラット化する
// 先頭はルート要素で、グループは NumChildren、リーフは Type を持つ
func (s *Schema) Flatten() []format.SchemaElement {
	return flattenNode(s.root, make([]format.SchemaElement, 0, 1+len(s.columns)))
}

func flattenNode(n *Node, elements []format.SchemaElement) []format.SchemaElement {
	element := format.SchemaElement{
		Name:           n.Name,
		Type:           n.Type,
		TypeLength:     n.TypeLength,
		RepetitionType: n.RepetitionType,
		ConvertedType:  n.ConvertedType,
	}
	if !n.IsLeaf() {
		numChildren := int32(len(n.Children))
		element.NumChildren = &numChildren
	}

	elements = append(elements, element)
	for _, child := range n.Children {
		elements = flattenNode(child, elements)
	}
	return elements
}

// フラット化されたスキーマ要素列からスキーマを復元する。Flatten の逆変換
func SchemaFromElements(elements []format.SchemaElement) (*Schema, error) {
	if len(elements) == 0 {
		return nil, errors.New("schema element list is empty")
	}

	root, rest, err := convertElements(elements)
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		return nil, errors.Errorf("%d schema element(s) left over after root group", len(rest))
	}
	if root.IsLeaf() {
		return nil, errors.New("root schema element must be a group")
	}

	return NewSchema(root), nil
}

// 先頭要素を1ノードに変換する
// NumChildren を持つ要素は、後続の NumChildren 個の要素をネストした子として再帰的に取り込む
func convertElements(elements []format.SchemaElement) (*Node, []format.SchemaElement, error) {
	element := elements[0]
	node := &Node{
		Name:           element.Name,
		Type:           element.Type,
		TypeLength:     element.TypeLength,
		RepetitionType: element.RepetitionType,
		ConvertedType:  element.ConvertedType,
	}

	if element.NumChildren == nil {
		if !node.IsLeaf() {
			return nil, nil, errors.Errorf("schema element '%s' has neither a type nor children", node.Name)
		}
		return node, elements[1:], nil
	}

	numChildren := *element.NumChildren
	node.Children = make([]*Node, 0, numChildren)
	elements = elements[1:]

	for i := int32(0); i < numChildren; i++ {
		if len(elements) == 0 {
			return nil, nil, errors.Errorf(
				"schema element '%s' declares %d children but the list ends after %d", node.Name, numChildren, i)
		}

		var child *Node
		var err error
		child, elements, err = convertElements(elements)
		if err != nil {
			return nil, nil, err
		}
		node.Children = append(node.Children, child)
	}

	return node, elements, nil
}
