package gee

import "fmt"

// node 是路由前缀树的一个节点
type node struct {
	pattern  string // 完整路由，只在终点节点上非空，如 /pokemon/:name
	part     string // 本层的段，如 :name
	children []*node
	isWild   bool // part 以 : 或 * 开头
}

func (n *node) matchChild(part string) *node {
	for _, child := range n.children {
		if child.part == part {
			return child
		}
	}
	return nil
}

// matchChildren 静态段排在通配段前面，/pokemon/translated/x 不会被 /pokemon/:name 抢走
func (n *node) matchChildren(part string) []*node {
	nodes := make([]*node, 0, len(n.children))
	for _, child := range n.children {
		if !child.isWild && child.part == part {
			nodes = append(nodes, child)
		}
	}
	for _, child := range n.children {
		if child.isWild {
			nodes = append(nodes, child)
		}
	}
	return nodes
}

// insert 同一层出现名字不同的参数段时 panic，否则 Param 取值会依赖注册顺序
func (n *node) insert(pattern string, parts []string, height int) {
	if len(parts) == height {
		if n.pattern != "" && n.pattern != pattern {
			panic(fmt.Sprintf("gee: route %q conflicts with %q", pattern, n.pattern))
		}
		n.pattern = pattern
		return
	}
	part := parts[height]
	child := n.matchChild(part)
	if child == nil {
		wild := part[0] == ':' || part[0] == '*'
		if wild {
			for _, c := range n.children {
				if c.isWild {
					panic(fmt.Sprintf("gee: wildcard %q in %q conflicts with existing %q", part, pattern, c.part))
				}
			}
		}
		child = &node{part: part, isWild: wild}
		n.children = append(n.children, child)
	}
	child.insert(pattern, parts, height+1)
}

func (n *node) search(parts []string, height int) *node {
	if len(parts) == height || (n.isWild && n.part[0] == '*') {
		if n.pattern == "" {
			return nil
		}
		return n
	}

	for _, child := range n.matchChildren(parts[height]) {
		if result := child.search(parts, height+1); result != nil {
			return result
		}
	}
	return nil
}
