// Package thermal extracts statistical anomalies from 2D intensity grids:
// a mean + k*std threshold flags hot pixels, and 8-connected component
// labeling groups them into reportable regions.
//
// Like the lidar package, every entry point is a pure, reentrant function;
// callers are responsible for offloading these CPU-bound passes off any
// latency-sensitive dispatch path.
package thermal
