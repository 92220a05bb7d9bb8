package amodem

import (
	"bufio"
	"fmt"
	"os"
)

// SymbolDebugger 定义调试器接口
// 接收机只依赖这个接口，不依赖具体的文件操作
type SymbolDebugger interface {
	Record(index int, raw, equalized complex128, training bool)
	Close() error
}

// CsvFileDebugger 是 SymbolDebugger 的具体实现
// 每行一个符号，可直接用于画星座图和实部时序图
type CsvFileDebugger struct {
	file   *os.File
	writer *bufio.Writer
}

// NewCsvFileDebugger 创建一个新的 CSV 调试器
func NewCsvFileDebugger(filename string) (*CsvFileDebugger, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, err
	}

	w := bufio.NewWriter(f)
	// 写入表头
	if _, err := w.WriteString("Index,RawReal,RawImag,EqReal,EqImag,Training\n"); err != nil {
		f.Close()
		return nil, err
	}

	return &CsvFileDebugger{
		file:   f,
		writer: w,
	}, nil
}

// Record 记录单个符号
func (d *CsvFileDebugger) Record(index int, raw, equalized complex128, training bool) {
	flag := 0
	if training {
		flag = 1
	}
	fmt.Fprintf(d.writer, "%d,%f,%f,%f,%f,%d\n", index, real(raw), imag(raw), real(equalized), imag(equalized), flag)
}

// Close 关闭文件并刷新缓冲区
func (d *CsvFileDebugger) Close() error {
	if err := d.writer.Flush(); err != nil {
		d.file.Close()
		return err
	}
	return d.file.Close()
}

// NoOpDebugger 是一个空实现，不记录数据时使用
// 这样可以避免在核心代码中写大量的 if d.debugger != nil check
type NoOpDebugger struct{}

func (d *NoOpDebugger) Record(index int, raw, equalized complex128, training bool) {}
func (d *NoOpDebugger) Close() error                                              { return nil }
