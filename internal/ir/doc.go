// Package ir provides the scene document model for sceneforge.
//
// This package contains type definitions and their JSON encoding only. All
// other internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Variants (fills, strokes, text behaviours) are Go interfaces with one
//     struct per kind, never a tag field plus optional payloads
//   - Document nodes encode through Object, which keeps key order
//   - Colors are 6-digit RRGGBB strings, alphas are floats in [0,1]
//   - Coordinates are output units (pixels); TwipsPerPixel converts
package ir
