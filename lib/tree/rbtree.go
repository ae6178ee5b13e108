package tree

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/benz9527/rbmap/lib/infra"
	"github.com/benz9527/rbmap/xlog"
)

type rbNode[K infra.OrderedKey, V any] struct {
	parent *rbNode[K, V]
	left   *rbNode[K, V]
	right  *rbNode[K, V]
	key    K
	val    V
	color  RBColor
	hasKV  bool
}

func (node *rbNode[K, V]) Color() RBColor {
	return node.color
}

func (node *rbNode[K, V]) Key() K {
	return node.key
}

func (node *rbNode[K, V]) Val() V {
	return node.val
}

func (node *rbNode[K, V]) HasKeyVal() bool {
	if node == nil {
		return false
	}
	return node.hasKV
}

func (node *rbNode[K, V]) Left() RBNode[K, V] {
	if node == nil || node.left.isNilLeaf() {
		return nil
	}
	return node.left
}

func (node *rbNode[K, V]) Parent() RBNode[K, V] {
	if node == nil || node.parent.isNilLeaf() {
		return nil
	}
	return node.parent
}

func (node *rbNode[K, V]) Right() RBNode[K, V] {
	if node == nil || node.right.isNilLeaf() {
		return nil
	}
	return node.right
}

// The sentinel is the only node without key and value.
func (node *rbNode[K, V]) isNilLeaf() bool {
	return node == nil || !node.hasKV
}

func (node *rbNode[K, V]) isRed() bool {
	return !node.isNilLeaf() && node.color == Red
}

func (node *rbNode[K, V]) isBlack() bool {
	return node.isNilLeaf() || node.color == Black
}

func (node *rbNode[K, V]) Direction() RBDirection {
	if node.isNilLeaf() {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] nil leaf node without direction")
	}

	if node.parent.isNilLeaf() {
		return Root
	}
	if node == node.parent.left {
		return Left
	}
	return Right
}

func (node *rbNode[K, V]) child(dir RBDirection) *rbNode[K, V] {
	switch dir {
	case Left:
		return node.left
	case Right:
		return node.right
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] root direction has no child")
	}
}

func (node *rbNode[K, V]) sibling() *rbNode[K, V] {
	switch node.Direction() {
	case Left:
		return node.parent.right
	case Right:
		return node.parent.left
	default:
	}
	return nil
}

func (node *rbNode[K, V]) grandpa() *rbNode[K, V] {
	return node.parent.parent
}

func (node *rbNode[K, V]) minimum() *rbNode[K, V] {
	aux := node
	for ; !aux.left.isNilLeaf(); aux = aux.left {
	}
	return aux
}

type orderedMap[K infra.OrderedKey, V any] struct {
	// The sentinel stands for every absent child and for the parent of
	// the root. Its links are never written, the remove rebalance gets
	// the parent of a vacated slot as an argument instead.
	sentinel *rbNode[K, V]
	root     *rbNode[K, V]
	count    int64
	cmp      infra.OrderedKeyComparator[K]
	isDesc   bool
	logger   xlog.XLogger
	stats    *orderedMapStats
}

func (m *orderedMap[K, V]) Len() int64 {
	return atomic.LoadInt64(&m.count)
}

func (m *orderedMap[K, V]) IsDesc() bool {
	return m.isDesc
}

func (m *orderedMap[K, V]) IsEmpty() bool {
	return m.root.isNilLeaf()
}

func (m *orderedMap[K, V]) Root() RBNode[K, V] {
	if m.root.isNilLeaf() {
		return nil
	}
	return m.root
}

func (m *orderedMap[K, V]) newNode(key K, val V) *rbNode[K, V] {
	return &rbNode[K, V]{
		parent: m.sentinel,
		left:   m.sentinel,
		right:  m.sentinel,
		key:    key,
		val:    val,
		color:  Red,
		hasKV:  true,
	}
}

func (m *orderedMap[K, V]) search(key K) *rbNode[K, V] {
	aux := m.root
	for !aux.isNilLeaf() {
		res := m.cmp(key, aux.key)
		if res == 0 {
			return aux
		} else if res < 0 {
			aux = aux.left
		} else {
			aux = aux.right
		}
	}
	return m.sentinel
}

func (m *orderedMap[K, V]) rejected(op string, key K, err error) error {
	if m.logger != nil {
		m.logger.Debug("[rbtree] operation rejected",
			zap.String("op", op),
			zap.Any("key", key),
			zap.String("error", err.Error()),
		)
	}
	return err
}

// References:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. The sentinel (NIL) is black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. The root is black.
// The longest path nodes' number is 2 * shortest path nodes' number.

/*
		 |                         |
		 X                         S
		/ \     leftRotate(X)     / \
	   L   S    ============>    X   Sd
		  / \                   / \
		Sc   Sd                L   Sc
*/
func (m *orderedMap[K, V]) leftRotate(x *rbNode[K, V]) {
	if x.isNilLeaf() || x.right.isNilLeaf() {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] left rotate node x is nil or x.right is nil")
	}

	p, y := x.parent, x.right
	dir := x.Direction()
	x.right = y.left
	if !y.left.isNilLeaf() {
		y.left.parent = x
	}
	y.left, x.parent = x, y

	switch dir {
	case Root:
		m.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to left-rotate")
	}
	y.parent = p
	m.stats.IncreaseRotationCount(Left)
}

/*
			 |                         |
			 X                         S
			/ \     rightRotate(S)    / \
	       L   S    <============    X   R
			  / \                   / \
			Sc   Sd               Sc   Sd
*/
func (m *orderedMap[K, V]) rightRotate(x *rbNode[K, V]) {
	if x.isNilLeaf() || x.left.isNilLeaf() {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] right rotate node x is nil or x.left is nil")
	}

	p, y := x.parent, x.left
	dir := x.Direction()
	x.left = y.right
	if !y.right.isNilLeaf() {
		y.right.parent = x
	}
	y.right, x.parent = x, y

	switch dir {
	case Root:
		m.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to right-rotate")
	}
	y.parent = p
	m.stats.IncreaseRotationCount(Right)
}

// rotate moves x down to the dir side.
func (m *orderedMap[K, V]) rotate(x *rbNode[K, V], dir RBDirection) {
	switch dir {
	case Left:
		m.leftRotate(x)
	case Right:
		m.rightRotate(x)
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unable to rotate to root direction")
	}
}

// Insert
// i1: Empty rbtree, insert directly, but root node is painted to black.
// i2: Otherwise, descend to the leaf slot and attach a red node.
func (m *orderedMap[K, V]) Insert(key K, val V) error {
	var x, y = m.root, m.sentinel
	for !x.isNilLeaf() {
		y = x
		res := m.cmp(key, x.key)
		if /* equal */ res == 0 {
			return m.rejected("insert", key, newKeyError[K](ErrDuplicateKey, key))
		} else /* less */ if res < 0 {
			x = x.left
		} else /* greater */ {
			x = x.right
		}
	}

	z := m.newNode(key, val)
	if /* i1 */ y.isNilLeaf() {
		z.color = Black
		m.root = z
	} else /* i2 */ {
		z.parent = y
		if m.cmp(key, y.key) < 0 {
			y.left = z
		} else {
			y.right = z
		}
		m.insertRebalance(z)
	}
	atomic.AddInt64(&m.count, 1)
	m.stats.IncreaseInsertCount()
	return nil
}

/*
New node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or NIL).

Loop while X's parent P is red. P can't be the root (p5), so the
grandpa G exists and is black.

recolor-up: The uncle U is red.
Repaint P and U into black, G into red, continue from G.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

rotate-to-line-up: The uncle U is black and X is the inner child.
Rotate P to the opposite direction of X, then P becomes the new X.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

finish: The uncle U is black and X is the outer child.
Repaint P into black, G into red and rotate G to U's side.

	    [G]                 [P]
	    / \    rotate(G)    / \
	  <P> [U]  ========>  <X> <G>
	  /                         \
	<X>                         [U]

The root is painted black at last, which is the only place
the black height grows.
*/
func (m *orderedMap[K, V]) insertRebalance(x *rbNode[K, V]) {
	for x.parent.isRed() {
		p, gp := x.parent, x.grandpa()
		dir := p.Direction()
		if uncle := gp.child(-dir); /* recolor-up */ uncle.isRed() {
			p.color = Black
			uncle.color = Black
			gp.color = Red
			m.stats.IncreaseFixupCount(fixupRecolorUp)
			x = gp
			continue
		}

		if /* rotate-to-line-up */ x.Direction() != dir {
			m.rotate(p, dir)
			m.stats.IncreaseFixupCount(fixupRotateToLineUp)
			x, p = p, x
		}

		/* finish */
		p.color = Black
		gp.color = Red
		m.rotate(gp, -dir)
		m.stats.IncreaseFixupCount(fixupFinish)
	}
	m.root.color = Black
}

func (m *orderedMap[K, V]) Remove(key K) (V, error) {
	if m.root.isNilLeaf() {
		return *new(V), m.rejected("remove", key, ErrEmptyMap)
	}
	z := m.search(key)
	if z.isNilLeaf() {
		return *new(V), m.rejected("remove", key, newKeyError[K](ErrKeyNotFound, key))
	}
	val := z.val
	m.removeNode(z)
	atomic.AddInt64(&m.count, -1)
	m.stats.IncreaseRemoveCount()
	return val, nil
}

/*
r1: Node Z has two children. Copy the key and value of Z's succ S
(the leftmost node of the right subtree) into Z and unlink S instead.
S has no left child.

	  |                    |
	  Z                    S
	 / \                  / \
	L  ..   copy(S, Z)   L  ..
		|   =========>       |
		P                    P
	   / \                  / \
	  S  ..                X  ..

r2: Node Y has at most one child X (may be NIL). Splice X into
Y's slot. If Y was black, one path lost a black node and the
rebalance starts from X.
*/
func (m *orderedMap[K, V]) removeNode(z *rbNode[K, V]) {
	y := z
	if /* r1 */ !z.left.isNilLeaf() && !z.right.isNilLeaf() {
		y = z.right.minimum()
		z.key, z.val = y.key, y.val
	}

	/* r2 */
	x := y.left
	if x.isNilLeaf() {
		x = y.right
	}
	p := y.parent
	switch dir := y.Direction(); dir {
	case Root:
		m.root = x
	case Left:
		p.left = x
	case Right:
		p.right = x
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to remove")
	}
	if !x.isNilLeaf() {
		x.parent = p
	}

	if y.isBlack() {
		m.removeRebalance(x, p)
	}

	// Unlink node
	y.parent, y.left, y.right = nil, nil, nil
	y.hasKV = false
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

X is one black short. X may be the NIL, so its parent P is passed in.
S is X's sibling, Sc is the S's child at X's side and Sd is the other.
S can't be NIL, its side is at least one black higher than X.

red-sibling: S is red, so P, Sc and Sd are black.
Rotate P to X's side and repaint S into black, P into red.
Sc becomes the new sibling.

	  [P]                   <S>               [S]
	  / \    l-rotate(P)    / \    repaint    / \
	[X] <S>  ==========>  [P] [Sd]  =====>  <P> [Sd]
	    / \               / \               / \
	 [Sc] [Sd]          [X] [Sc]          [X] [Sc]

push-up: S, Sc and Sd are black.
Repaint S into red, P becomes the new X.

	  {P}             {P}
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

align: S is black, Sc is red and Sd is black.
Repaint Sc into black, S into red and rotate S away from X.
Enter into resolve.

	  {P}                   {P}
	  / \    r-rotate(S)    / \
	[X] [S]  ==========>  [X] [Sc]
	    / \                     \
	  <Sc> [Sd]                 <S>
	                              \
	                              [Sd]

resolve: S is black and Sd is red.
Copy P's color into S, repaint P and Sd into black and rotate
P to X's side. X is done.

	  {P}                   {S}
	  / \    l-rotate(P)    / \
	[X] [S]  ==========>  [P] [Sd]
	    / \               / \
	  {Sc} <Sd>         [X] {Sc}

Exit the loop when X is red or the root, then paint X black.
*/
func (m *orderedMap[K, V]) removeRebalance(x, parent *rbNode[K, V]) {
	for x != m.root && x.isBlack() {
		dir := Right
		if x == parent.left {
			dir = Left
		}

		sibling := parent.child(-dir)
		if /* red-sibling */ sibling.isRed() {
			sibling.color = Black
			parent.color = Red
			m.rotate(parent, dir)
			m.stats.IncreaseFixupCount(fixupRedSibling)
			sibling = parent.child(-dir)
		}

		sc, sd := sibling.child(dir), sibling.child(-dir)
		if /* push-up */ sc.isBlack() && sd.isBlack() {
			sibling.color = Red
			m.stats.IncreaseFixupCount(fixupPushUp)
			x, parent = parent, parent.parent
			continue
		}

		if /* align */ sd.isBlack() {
			sc.color = Black
			sibling.color = Red
			m.rotate(sibling, -dir)
			m.stats.IncreaseFixupCount(fixupAlign)
			sibling = parent.child(-dir)
			sd = sibling.child(-dir)
		}

		/* resolve */
		sibling.color = parent.color
		parent.color = Black
		if !sd.isNilLeaf() {
			sd.color = Black
		}
		m.rotate(parent, dir)
		m.stats.IncreaseFixupCount(fixupResolve)
		x = m.root
	}
	if !x.isNilLeaf() {
		x.color = Black
	}
}

func (m *orderedMap[K, V]) Find(key K) (V, bool, error) {
	if m.root.isNilLeaf() {
		return *new(V), false, m.rejected("find", key, ErrEmptyMap)
	}
	x := m.search(key)
	if x.isNilLeaf() {
		m.stats.IncreaseFindCount(false)
		return *new(V), false, nil
	}
	m.stats.IncreaseFindCount(true)
	return x.val, true, nil
}

func (m *orderedMap[K, V]) Get(key K) (V, bool, error) {
	return m.Find(key)
}

func (m *orderedMap[K, V]) Update(key K, val V) error {
	if m.root.isNilLeaf() {
		return m.rejected("update", key, ErrEmptyMap)
	}
	x := m.search(key)
	if x.isNilLeaf() {
		return m.rejected("update", key, newKeyError[K](ErrKeyNotFound, key))
	}
	x.val = val
	return nil
}

func (m *orderedMap[K, V]) Set(key K, val V) error {
	return m.Update(key, val)
}

// Clear removes the root key until the map is empty.
func (m *orderedMap[K, V]) Clear() {
	removed := int64(0)
	for !m.root.isNilLeaf() {
		if _, err := m.Remove(m.root.key); err != nil {
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] unable to remove the root key")
		}
		removed++
	}
	if m.logger != nil {
		m.logger.Info("[rbtree] map cleared", zap.Int64("removed", removed))
	}
}

// Inorder traversal to implement the DFS.
func (m *orderedMap[K, V]) Foreach(action func(idx int64, color RBColor, key K, val V) bool) {
	size := atomic.LoadInt64(&m.count)
	aux := m.root
	if size <= 0 || aux.isNilLeaf() {
		return
	}

	stack := make([]*rbNode[K, V], 0, size>>1+1)
	defer func() {
		clear(stack)
	}()

	for ; !aux.isNilLeaf(); aux = aux.left {
		stack = append(stack, aux)
	}

	idx := int64(0)
	for size = int64(len(stack)); size > 0; size = int64(len(stack)) {
		if aux = stack[size-1]; !action(idx, aux.color, aux.key, aux.val) {
			return
		}
		idx++
		stack = stack[:size-1]
		for aux = aux.right; !aux.isNilLeaf(); aux = aux.left {
			stack = append(stack, aux)
		}
	}
}

func (m *orderedMap[K, V]) nodes() []RBNode[K, V] {
	res := make([]RBNode[K, V], 0, m.Len())
	for it := NewTraversal[K, V](m); it.HasNext(); {
		node, err := it.Next()
		if err != nil {
			break
		}
		res = append(res, node)
	}
	return res
}

func (m *orderedMap[K, V]) Keys() []K {
	return lo.Map(m.nodes(), func(node RBNode[K, V], _ int) K {
		return node.Key()
	})
}

func (m *orderedMap[K, V]) Values() []V {
	return lo.Map(m.nodes(), func(node RBNode[K, V], _ int) V {
		return node.Val()
	})
}

// String renders the entries as [[k1, v1], [k2, v2], ...] in the
// traversal order. Keys and values are formatted by %v, strings unquoted.
func (m *orderedMap[K, V]) String() string {
	builder := strings.Builder{}
	builder.WriteString("[")
	for i, node := range m.nodes() {
		if i > 0 {
			builder.WriteString(", ")
		}
		_, _ = fmt.Fprintf(&builder, "[%v, %v]", node.Key(), node.Val())
	}
	builder.WriteString("]")
	return builder.String()
}

type OrderedMapOpt[K infra.OrderedKey, V any] func(*orderedMap[K, V])

func WithOrderedMapDesc[K infra.OrderedKey, V any]() OrderedMapOpt[K, V] {
	return func(m *orderedMap[K, V]) {
		m.isDesc = true
		m.cmp = infra.DescCompare[K]
	}
}

func WithOrderedMapLogger[K infra.OrderedKey, V any](logger xlog.XLogger) OrderedMapOpt[K, V] {
	return func(m *orderedMap[K, V]) {
		if logger != nil {
			m.logger = xlog.NewNamedXLogger(logger, "rbmap")
		}
	}
}

func newOrderedMap[K infra.OrderedKey, V any](opts ...OrderedMapOpt[K, V]) *orderedMap[K, V] {
	sentinel := &rbNode[K, V]{
		color: Black,
	}
	m := &orderedMap[K, V]{
		sentinel: sentinel,
		root:     sentinel,
		cmp:      infra.AscCompare[K],
	}
	for _, o := range opts {
		if o != nil {
			o(m)
		}
	}
	return m
}

func NewOrderedMap[K infra.OrderedKey, V any](opts ...OrderedMapOpt[K, V]) OrderedMap[K, V] {
	return newOrderedMap[K, V](opts...)
}
