// Package lingolens places short text labels onto a live camera view so they
// stay anchored to physical surfaces as the viewer moves.
//
// The package is built around four pieces that data flows through in one
// direction:
//
//	label + screen point -> Resolver -> world transform
//	label -> Layout -> TextBlock
//	(TextBlock, transform) -> Factory -> *Node
//	*Node -> Store -> scene graph
//
// # Quick start
//
// The host (an AR session, or the simulated [Frame] shipped with this package)
// supplies a [FrameContext] every frame. The [Store] owns the placed
// annotations and is driven from the same loop that renders the [Scene]:
//
//	scene := lingolens.NewScene(lingolens.Rect{Width: 1280, Height: 720})
//	factory, _ := lingolens.NewFactory(lingolens.DefaultConfig())
//	store := lingolens.NewStore(lingolens.StoreOptions{Builder: factory})
//
//	_ = store.Add("coffee mug", roi.Center())
//
//	// once per frame, on the render goroutine:
//	store.Update(scene.Root(), frame, dt)
//	scene.Draw(screen)
//
// # Raycasting
//
// [Resolver] evaluates an ordered list of [Strategy] values and returns the
// first success: reconstructed planes, estimated planes, the feature-point
// cloud, and finally a fixed-distance projection in front of the camera.
//
// # Threading
//
// Everything in this package is single-threaded except [Store.Post], which
// queues work from other goroutines to be run at the start of the next
// [Store.Update].
package lingolens
