// Package flowrouter routes flow across a grid with the priority-flood
// algorithm.
//
// Each step the router floods inward from the open boundary nodes, producing
// a depression-free copy of the surface in which every node drains to an
// open boundary. With Epsilon set, filled areas are given the smallest
// representable gradient toward their outlet so that no flats remain. Each
// node is then assigned the neighbour of steepest descent on the filled
// surface as its receiver, and drainage area and discharge are accumulated
// from the upstream end of every flow path down to the boundary.
//
// Node fields written:
//
//	depression_free_elevation     filled surface
//	flow__receiver_node           int64, a node's own id at outlets and sinks
//	flow__upstream_node_order     int64, receivers always precede donors
//	flow__link_length             distance to the receiver
//	topographic__steepest_slope   slope toward the receiver
//	drainage_area                 only when accumulating flow
//	surface_water__discharge      only when accumulating flow
package flowrouter
