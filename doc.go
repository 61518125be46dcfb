// Package apilevel answers "since which platform API level does this exist"
// questions for classes, methods and fields.
//
// The API history is described by a descriptor (see package descriptor) and
// compiled into a compact, immutable knowledge base file that is memory
// mapped and queried with binary searches. Inherited members, superclass
// and interface edges that appear over time, deprecations and removals are
// all resolved when the file is written, so queries never walk the class
// hierarchy.
//
// # Quick Start
//
//	ctx := context.Background()
//	db, err := apilevel.Open(ctx,
//	    apilevel.WithDescriptor("api-versions.xml"),
//	    apilevel.WithCacheDir("/var/cache/lint"),
//	)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	db.ClassVersion("android/app/Activity")                                     // 1
//	db.MethodVersion("android/app/Activity", "onApplyWindowInsets", "()V")       // 20
//	db.ValidCastVersion("android/widget/Toolbar", "android/view/ViewGroup")     // 21
//
// Queries return None for unknown classes and for deprecations or removals
// that never happened. A member that a known class does not list shares the
// class's versions.
//
// # Cache Policy
//
// Open regenerates the knowledge base when it is missing, empty, older than
// the descriptor, or fails validation. A blob store configured with
// WithRemote is consulted before regenerating a missing file:
//
//	store, _ := s3.New(ctx, "artifacts", s3.WithPrefix("apilevel/"))
//	db, _ := apilevel.Open(ctx, apilevel.WithRemote(store, "android-35.kb.zst"))
//
// With WithModelFallback, queries are answered from the parsed descriptor
// when no usable file can be produced.
//
// # Several Platform Versions
//
// Hosts that analyze against more than one platform keep their knowledge
// bases in a Registry:
//
//	reg := apilevel.NewRegistry(4, apilevel.WithCacheDir(dir))
//	defer reg.Close()
//	db, _ := reg.Get(ctx, "android-35",
//	    apilevel.WithDescriptor("sdk/35/api-versions.xml"),
//	    apilevel.WithDatabaseName("android-35.kb"),
//	)
package apilevel
