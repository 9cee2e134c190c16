// Command classdump decodes .class files and prints their structure, as a
// text summary or as JSON. With -jar it bulk-decodes every class in a jar
// or jmod archive and reports scan stats.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/JavaPerformance/jvmti/pkg/classfile"
	"github.com/JavaPerformance/jvmti/pkg/loader"
)

func main() {
	jsonOut := flag.Bool("json", false, "emit JSON instead of a text summary")
	jarMode := flag.Bool("jar", false, "treat arguments as jar/jmod archives and scan them")
	strict := flag.Bool("strict", false, "reject malformed UTF-8 in the constant pool")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	args := flag.Args()
	if len(args) == 0 && *jarMode {
		// With no archive named, fall back to the JDK's own base module.
		if jmod := findBaseJmod(); jmod != "" {
			log.WithField("path", jmod).Debug("using java.base.jmod")
			args = []string{jmod}
		}
	}
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: classdump [-json] [-jar] [-strict] [-v] <file>...")
		os.Exit(2)
	}

	failed := false
	for _, path := range args {
		var err error
		if *jarMode {
			err = scanArchive(path)
		} else {
			err = dumpClass(path, *jsonOut, *strict)
		}
		if err != nil {
			log.WithError(err).WithField("path", path).Error("decode failed")
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func dumpClass(path string, jsonOut, strict bool) error {
	log.WithField("path", path).Debug("decoding class file")

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	cf, err := classfile.Decoder{StrictUTF8: strict}.Decode(data)
	if err != nil {
		return err
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(classView(cf))
	}
	printSummary(cf)
	return nil
}

func findBaseJmod() string {
	if env := os.Getenv("JAVA_BASE_JMOD"); env != "" {
		return env
	}
	if javaHome := os.Getenv("JAVA_HOME"); javaHome != "" {
		p := filepath.Join(javaHome, "jmods", "java.base.jmod")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func scanArchive(path string) error {
	l, err := loader.NewArchiveLoader(path)
	if err != nil {
		return err
	}
	start := time.Now()
	stats, err := l.Scan(func(name string, cf *classfile.ClassFile) {
		log.WithField("class", name).Debug("decoded")
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("%s: %d class files, %d parsed, %d failed, %d bytes\n",
		path, stats.ClassFiles, stats.Parsed, stats.Failed, stats.TotalBytes)
	if stats.Parsed > 0 && elapsed > 0 {
		mbps := float64(stats.TotalBytes) / (1 << 20) / elapsed.Seconds()
		fmt.Printf("  %.1f MB/s, %d ns/class\n",
			mbps, elapsed.Nanoseconds()/int64(stats.Parsed))
	}
	return nil
}

func printSummary(cf *classfile.ClassFile) {
	name, err := cf.ClassName()
	if err != nil {
		name = fmt.Sprintf("<unresolvable this_class %d>", cf.ThisClass)
	}
	fmt.Printf("class %s\n", name)
	fmt.Printf("  version: %d.%d\n", cf.MajorVersion, cf.MinorVersion)
	fmt.Printf("  flags: %s\n", strings.Join(classfile.FlagNames(cf.AccessFlags), " "))
	if super := cf.SuperClassName(); super != "" {
		fmt.Printf("  super: %s\n", super)
	}
	for _, idx := range cf.Interfaces {
		if iface, err := cf.ConstantPool.GetClassName(idx); err == nil {
			fmt.Printf("  implements: %s\n", iface)
		}
	}
	fmt.Printf("  constant pool: %d slots\n", len(cf.ConstantPool.Entries()))

	for _, f := range cf.Fields {
		fmt.Printf("  field %s %s\n", memberName(cf, f.NameIndex), memberName(cf, f.DescriptorIndex))
	}
	for i := range cf.Methods {
		m := &cf.Methods[i]
		fmt.Printf("  method %s %s\n", memberName(cf, m.NameIndex), memberName(cf, m.DescriptorIndex))
		if code := m.Code(); code != nil {
			fmt.Printf("    code: %d bytes, max_stack=%d max_locals=%d\n",
				len(code.Code), code.MaxStack, code.MaxLocals)
		}
	}
	for _, a := range cf.Attributes {
		fmt.Printf("  attribute %s\n", a.AttributeName())
	}
}

func memberName(cf *classfile.ClassFile, index uint16) string {
	s, err := cf.ConstantPool.GetUtf8(index)
	if err != nil {
		return fmt.Sprintf("<bad index %d>", index)
	}
	return s
}

// JSON view structs keep the output stable and omit raw pool plumbing.

type classJSON struct {
	Name         string       `json:"name"`
	MajorVersion uint16       `json:"major_version"`
	MinorVersion uint16       `json:"minor_version"`
	Flags        []string     `json:"flags"`
	Super        string       `json:"super,omitempty"`
	Interfaces   []string     `json:"interfaces,omitempty"`
	Fields       []memberJSON `json:"fields,omitempty"`
	Methods      []memberJSON `json:"methods,omitempty"`
	Attributes   []string     `json:"attributes,omitempty"`
}

type memberJSON struct {
	Name       string   `json:"name"`
	Descriptor string   `json:"descriptor"`
	Flags      []string `json:"flags,omitempty"`
	Attributes []string `json:"attributes,omitempty"`
}

func classView(cf *classfile.ClassFile) classJSON {
	name, err := cf.ClassName()
	if err != nil {
		name = ""
	}
	view := classJSON{
		Name:         name,
		MajorVersion: cf.MajorVersion,
		MinorVersion: cf.MinorVersion,
		Flags:        classfile.FlagNames(cf.AccessFlags),
		Super:        cf.SuperClassName(),
	}
	for _, idx := range cf.Interfaces {
		if iface, err := cf.ConstantPool.GetClassName(idx); err == nil {
			view.Interfaces = append(view.Interfaces, iface)
		}
	}
	for _, f := range cf.Fields {
		view.Fields = append(view.Fields, memberJSON{
			Name:       memberName(cf, f.NameIndex),
			Descriptor: memberName(cf, f.DescriptorIndex),
			Flags:      classfile.FlagNames(f.AccessFlags),
			Attributes: attributeNames(f.Attributes),
		})
	}
	for _, m := range cf.Methods {
		view.Methods = append(view.Methods, memberJSON{
			Name:       memberName(cf, m.NameIndex),
			Descriptor: memberName(cf, m.DescriptorIndex),
			Flags:      classfile.FlagNames(m.AccessFlags),
			Attributes: attributeNames(m.Attributes),
		})
	}
	view.Attributes = attributeNames(cf.Attributes)
	return view
}

func attributeNames(attrs []classfile.Attribute) []string {
	names := make([]string, 0, len(attrs))
	for _, a := range attrs {
		names = append(names, a.AttributeName())
	}
	return names
}
