package commands

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/celer/vkcompute/vkg"
	gu "github.com/docker/go-units"
	"github.com/spf13/cobra"
	vk "github.com/vulkan-go/vulkan"
)

var showFeatures bool

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show what the Vulkan driver exposes",
	Long: `List the instance extensions and layers, then for every physical device
its queue families, memory types and heaps, and device extensions.`,
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().BoolVar(&showFeatures, "features", false, "also list device features")
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	if err := vkg.InitializeForComputeOnly(); err != nil {
		return fmt.Errorf("loading vulkan: %w", err)
	}

	extensions, err := vkg.SupportedExtensions()
	if err != nil {
		return fmt.Errorf("instance extensions: %w", err)
	}
	list(w, "Extensions", extensions)

	layers, err := vkg.SupportedLayers()
	if err != nil {
		return fmt.Errorf("instance layers: %w", err)
	}
	list(w, "Layers", layers)

	app := &vkg.App{Name: cfg.App.Name}
	instance, err := app.CreateInstance()
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	defer instance.Destroy()

	physicalDevices, err := instance.PhysicalDevices()
	if err != nil {
		return fmt.Errorf("physical devices: %w", err)
	}
	if len(physicalDevices) == 0 {
		fmt.Fprintln(w, "no physical devices")
		return nil
	}
	for _, pd := range physicalDevices {
		if err := showPhysicalDeviceInfo(w, pd); err != nil {
			return err
		}
	}
	return nil
}

func showPhysicalDeviceInfo(w io.Writer, pd *vkg.PhysicalDevice) error {
	fmt.Fprintf(w, "\n[%d] %s\n", pd.Index, pd.DeviceName)
	fmt.Fprintf(w, "-----------------------------\n")
	fmt.Fprintf(w, "\tType %s, API %s\n", pd.DeviceType(), pd.APIVersion())
	groups := pd.MaxComputeWorkGroupCount()
	fmt.Fprintf(w, "\tMax compute workgroups %d x %d x %d\n", groups[0], groups[1], groups[2])

	fmt.Fprintf(w, "\n\tQueue Families\n")
	queueFamilies, err := pd.QueueFamilies()
	if err != nil {
		return fmt.Errorf("%s queue families: %w", pd, err)
	}
	for _, qf := range queueFamilies {
		fmt.Fprintf(w, "\t\t%s\n", qf.String())
	}

	if showFeatures {
		fmt.Fprintf(w, "\n\tFeatures\n")
		showDeviceFeatures(w, pd.VKPhysicalDeviceFeatures())
	}

	memoryTypes := pd.MemoryTypes()
	fmt.Fprintf(w, "\n\tMemory Types (%d host visible, %d host coherent)\n",
		memoryTypes.NumHostVisible(), memoryTypes.NumHostVisibleAndCoherent())
	fmt.Fprintf(w, "\t\tHeapIdx\tFlags\n")
	for _, mt := range memoryTypes {
		fmt.Fprintf(w, "\t\t%d\t%s\n", mt.HeapIndex, memoryPropertyFlags(vk.MemoryPropertyFlagBits(mt.PropertyFlags)))
	}

	fmt.Fprintf(w, "\n\tMemory Heaps\n")
	for _, h := range pd.MemoryHeaps() {
		fmt.Fprintf(w, "\t\t%s\t%s\n", gu.BytesSize(float64(h.Size)), memoryHeapFlags(vk.MemoryHeapFlagBits(h.Flags)))
	}

	extensions, err := pd.SupportedExtensions()
	if err != nil {
		return fmt.Errorf("%s extensions: %w", pd, err)
	}
	fmt.Fprintf(w, "\n\tSupported Extensions\n")
	for _, ext := range extensions {
		fmt.Fprintf(w, "\t\t%s\n", ext)
	}
	return nil
}

func showDeviceFeatures(w io.Writer, features vk.PhysicalDeviceFeatures) {
	features.Deref()

	tf := reflect.TypeOf(features)
	vf := reflect.ValueOf(features)
	for f := 0; f < tf.NumField(); f++ {
		sf := tf.Field(f)
		sv := vf.Field(f)
		if sf.IsExported() && !sf.Anonymous && sf.Type.Kind() == reflect.Uint32 {
			fmt.Fprintf(w, "\t\t%s %v\n", sf.Name, sv.Uint() == 1)
		}
	}
}

var memoryPropertyNames = []struct {
	bit  vk.MemoryPropertyFlagBits
	name string
}{
	{vk.MemoryPropertyDeviceLocalBit, "device-local"},
	{vk.MemoryPropertyHostVisibleBit, "host-visible"},
	{vk.MemoryPropertyHostCoherentBit, "host-coherent"},
	{vk.MemoryPropertyHostCachedBit, "host-cached"},
	{vk.MemoryPropertyLazilyAllocatedBit, "lazily-allocated"},
	{vk.MemoryPropertyProtectedBit, "protected"},
}

func memoryPropertyFlags(f vk.MemoryPropertyFlagBits) string {
	var names []string
	for _, n := range memoryPropertyNames {
		if f&n.bit != 0 {
			names = append(names, n.name)
		}
	}
	return fmt.Sprintf("%s (%x)", strings.Join(names, "|"), uint32(f))
}

func memoryHeapFlags(f vk.MemoryHeapFlagBits) string {
	var names []string
	if f&vk.MemoryHeapDeviceLocalBit != 0 {
		names = append(names, "device-local")
	}
	if f&vk.MemoryHeapMultiInstanceBit != 0 {
		names = append(names, "multi-instance")
	}
	return fmt.Sprintf("%s (%x)", strings.Join(names, "|"), uint32(f))
}

func list(w io.Writer, title string, data []string) {
	fmt.Fprintf(w, "%s\n", title)
	fmt.Fprintf(w, "-----------------------------\n")
	for _, d := range data {
		fmt.Fprintf(w, "\t%s\n", d)
	}
	fmt.Fprintf(w, "\n")
}
