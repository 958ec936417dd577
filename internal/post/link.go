package post

// Link computes the page context of every post in the collection, by position.
//
// Next is the post at i-1 (newer) and Previous the post at i+1 (older), each only when it
// exists and is published. An unpublished neighbor yields nil; adjacency is never bridged
// across it.
func Link(c *Collection) []PageContext {
	nodes := c.nodes
	out := make([]PageContext, len(nodes))
	for i, n := range nodes {
		ctx := PageContext{ID: n.ID}
		if i > 0 && nodes[i-1].Published {
			ctx.Next = nodes[i-1]
		}
		if i+1 < len(nodes) && nodes[i+1].Published {
			ctx.Previous = nodes[i+1]
		}
		out[i] = ctx
	}
	return out
}
