// Package lidar turns raw 3D point samples into a structured classification
// report: height-band class labels per point, building footprints from
// density clustering of the upper band, and vegetation statistics.
//
// Every entry point is a pure function of its input plus parameters. No
// component retains state across calls, so concurrent invocations need no
// locking. The computations are CPU-bound and may run long on large inputs;
// callers driving latency-sensitive dispatch should offload them to worker
// goroutines.
package lidar
