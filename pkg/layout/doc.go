// Package layout positions the collapsed assembly graph in two levels and
// fuses the results into one coordinate frame per component.
//
// # Two-level layout
//
// Every group is first laid out in isolation by [Local]: its members get
// positions relative to the group's own lower-left corner, and the group
// gets a width and height. [Global] then lays out the whole component with
// each group drawn as one opaque, fixed-size rectangle. [Reconcile]
// translates group members by the placeholder's absolute corner, reads
// plain nodes and edges directly, and computes the component's bounding
// box. [Component] runs all three.
//
// # Engines
//
// Layout itself is delegated to an [Engine]. [Graphviz] runs the dot
// algorithm in-process through go-graphviz; [Cached] memoizes any engine
// in a [cache.Cache]. Tests use a fixture engine that returns canned
// attribute maps.
//
// # Units
//
// Positions and control points are in points. Node and group sizes are in
// inches, as Graphviz reports them; [Options.PointsPerInch] converts
// between the two.
package layout
