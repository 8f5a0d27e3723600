// Package bsp implements the kernel.Kernel interface with constructive solid
// geometry on binary space partitioning trees.
//
// A Solid is a flat list of convex polygons. Each boolean operation builds a
// throwaway BSP tree per operand, clips the trees against each other and
// reads the surviving polygons back out:
//
//	a := bsp.Cuboid(v3.Vec{}, v3.Vec{X: 2, Y: 2, Z: 2}, 0)
//	b := bsp.Sphere(v3.Vec{}, 1.3, 32, 16, 1)
//	s := a.Subtract(b)
//
// Operations never modify their operands. Classification against a plane
// uses the fixed tolerance Epsilon.
package bsp
