// Package router defines the shared state of the 2D global router: the
// tile grid with its two edge planes, the congestion-driven cost model,
// and the net and two-pin records that the rip-up-and-reroute engine
// mutates in place.
package router
