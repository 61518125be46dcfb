package apilevel_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/hupe1980/apilevel"
	"github.com/hupe1980/apilevel/graph"
)

const exampleDescriptor = `<api version="3">
	<class name="java/lang/Object" since="1">
		<method name="hashCode()I"/>
	</class>
	<class name="android/app/Activity" since="1">
		<extends name="java/lang/Object"/>
		<method name="onCreate(Landroid/os/Bundle;)V"/>
		<method name="isInPictureInPictureMode()Z" since="24"/>
	</class>
	<class name="android/app/Fragment" since="11" deprecated="28">
		<extends name="java/lang/Object"/>
		<field name="mState" since="11" removed="26"/>
	</class>
</api>
`

// Example_open demonstrates generating and querying a knowledge base from a
// descriptor file.
func Example_open() {
	dir, err := os.MkdirTemp("", "apilevel-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	desc := filepath.Join(dir, "api-versions.xml")
	if err := os.WriteFile(desc, []byte(exampleDescriptor), 0o600); err != nil {
		log.Fatal(err)
	}

	db, err := apilevel.Open(context.Background(),
		apilevel.WithDescriptor(desc),
		apilevel.WithCacheDir(filepath.Join(dir, "cache")),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	fmt.Println(db.Source())
	fmt.Println(db.ClassVersion("android/app/Activity"))
	fmt.Println(db.MethodVersion("android/app/Activity", "isInPictureInPictureMode", "()Z"))
	fmt.Println(db.ClassDeprecatedIn("android/app/Fragment"))
	fmt.Println(db.FieldRemovedIn("android/app/Fragment", "mState"))
	fmt.Println(db.ClassVersion("android/app/Missing") == apilevel.None)
	// Output:
	// regenerated
	// 1
	// 24
	// 28
	// 26
	// true
}

// Example_model demonstrates answering queries directly from an in-memory
// model without a database file.
func Example_model() {
	b := graph.NewBuilder()
	b.Class("java/lang/Object", 1).
		Method("hashCode()I", 1)
	b.Class("android/widget/Toolbar", 21).
		Extends("java/lang/Object", 1).
		Method("setTitle(Ljava/lang/CharSequence;)V", 21)

	api, err := b.Build()
	if err != nil {
		log.Fatal(err)
	}

	l := apilevel.NewModelLookup(api)
	defer l.Close()

	fmt.Println(l.MethodVersion("android/widget/Toolbar", "hashCode", "()I"))
	fmt.Println(l.ValidCastVersion("android/widget/Toolbar", "java/lang/Object"))
	fmt.Println(l.IsValidPackage("android/widget"))
	// Output:
	// 21
	// 21
	// true
}
