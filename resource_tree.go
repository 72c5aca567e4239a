package adminauth

import "sync"

// ResourceNode is one entry in the navigable resource forest. A node
// without a Path is a pure group header: traversed into, never matched.
// An empty AllowedRoles set means open to every authenticated role.
type ResourceNode struct {
	Path         string
	Label        string
	AllowedRoles []Role
	Children     []ResourceNode
}

func (n ResourceNode) allows(role Role) bool {
	if len(n.AllowedRoles) == 0 {
		return true
	}
	for _, allowed := range n.AllowedRoles {
		if allowed == role {
			return true
		}
	}
	return false
}

// ResourceTree is the static, exclusively-owned forest of resource
// nodes. It is authored, not user-editable at runtime, except for the
// additive developer node; pass it into the resolver and guard as an
// explicit dependency so it can be swapped in tests.
//
// Path values must be unique among nodes that declare one. Duplicates
// are a content error: resolution uses the first match in pre-order and
// keeping paths unique is the author's responsibility, not validated
// here.
type ResourceTree struct {
	mu      sync.RWMutex
	roots   []ResourceNode
	devNode *ResourceNode
	memo    map[memoKey]bool
}

type memoKey struct {
	path string
	role Role
}

// NewResourceTree builds a tree over the given roots.
func NewResourceTree(roots ...ResourceNode) *ResourceTree {
	return &ResourceTree{
		roots: roots,
		memo:  map[memoKey]bool{},
	}
}

// Resolve decides access for path under role: the first node declaring
// the path in a depth-first pre-order search wins. A path declared
// nowhere in the tree is allowed; open-by-default is deliberate policy
// for unregistered paths, not an oversight.
//
// Decisions memoize per (path, role); the tree never mutates at runtime
// except for the developer node toggle, which drops the memo.
func (t *ResourceTree) Resolve(path string, role Role) bool {
	key := memoKey{path: path, role: role}

	t.mu.RLock()
	if decision, ok := t.memo[key]; ok {
		t.mu.RUnlock()
		return decision
	}
	t.mu.RUnlock()

	// deciding and memoizing share one critical section: a developer
	// node toggle between the two would let a pre-toggle decision land
	// in the freshly reset memo and survive the invalidation
	t.mu.Lock()
	defer t.mu.Unlock()

	if decision, ok := t.memo[key]; ok {
		return decision
	}

	decision := true
	if node, found := findNode(t.roots, path); found {
		decision = node.allows(role)
	} else if t.devNode != nil && t.devNode.Path == path {
		decision = t.devNode.allows(role)
	}
	t.memo[key] = decision

	return decision
}

// Find returns the node declaring path, if any. Useful for menu layers
// that need labels alongside decisions.
func (t *ResourceTree) Find(path string) (ResourceNode, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if node, found := findNode(t.roots, path); found {
		return node, true
	}
	if t.devNode != nil && t.devNode.Path == path {
		return *t.devNode, true
	}
	return ResourceNode{}, false
}

// EnableDeveloperNode appends the additive developer entry and
// invalidates memoized decisions.
func (t *ResourceTree) EnableDeveloperNode(node ResourceNode) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.devNode = &node
	t.memo = map[memoKey]bool{}
}

// DisableDeveloperNode removes the developer entry and invalidates
// memoized decisions.
func (t *ResourceTree) DisableDeveloperNode() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.devNode = nil
	t.memo = map[memoKey]bool{}
}

func findNode(nodes []ResourceNode, path string) (ResourceNode, bool) {
	for i := range nodes {
		if nodes[i].Path != "" && nodes[i].Path == path {
			return nodes[i], true
		}
		if node, found := findNode(nodes[i].Children, path); found {
			return node, true
		}
	}
	return ResourceNode{}, false
}

// DefaultResourceTree returns the merchant admin panel forest.
func DefaultResourceTree() *ResourceTree {
	return NewResourceTree(
		ResourceNode{Path: "/dashboard", Label: "Dashboard"},
		ResourceNode{Path: "/orders", Label: "Orders"},
		ResourceNode{
			Path:         "/blacklist",
			Label:        "Blacklist",
			AllowedRoles: []Role{RoleSuperAdmin, RoleAdmin, RoleCS},
		},
		ResourceNode{
			Label: "Accounts",
			Children: []ResourceNode{
				{
					Path:         "/merchants",
					Label:        "Merchants",
					AllowedRoles: []Role{RoleSuperAdmin, RoleAdmin},
				},
				{
					Path:         "/stripe-accounts",
					Label:        "Stripe Accounts",
					AllowedRoles: []Role{RoleSuperAdmin, RoleAdmin},
				},
			},
		},
		ResourceNode{
			Label: "System",
			Children: []ResourceNode{
				{
					Path:         "/settings",
					Label:        "Settings",
					AllowedRoles: []Role{RoleSuperAdmin},
				},
			},
		},
	)
}

// DeveloperResourceNode is the entry toggled by the persisted developer
// mode flag.
func DeveloperResourceNode() ResourceNode {
	return ResourceNode{
		Path:         "/developer",
		Label:        "Developer",
		AllowedRoles: []Role{RoleSuperAdmin},
	}
}
