// Package sysinstall 将 privacyguard 安装为 systemd 服务
package sysinstall

import (
	"fmt"
	"os"
	"os/exec"
	"os/user"
	"runtime"
	"strings"

	"privacyguard/config"
)

// InstallerConfig 安装配置
type InstallerConfig struct {
	ConfigPath string // 配置文件路径
	RunUser    string // 运行用户
	DryRun     bool   // 是否为干运行模式
	Verbose    bool   // 是否显示详细信息
}

// SystemInstaller 系统安装器
type SystemInstaller struct {
	config InstallerConfig
	log    func(format string, args ...interface{})
}

// NewSystemInstaller 创建新的系统安装器
func NewSystemInstaller(cfg InstallerConfig) *SystemInstaller {
	si := &SystemInstaller{config: cfg}
	if cfg.Verbose {
		si.log = func(format string, args ...interface{}) {
			fmt.Printf("[INFO] "+format+"\n", args...)
		}
	} else {
		si.log = func(format string, args ...interface{}) {}
	}
	return si
}

// IsRoot 检查是否以 root 权限运行
func (si *SystemInstaller) IsRoot() bool {
	if runtime.GOOS != "linux" {
		return false
	}
	currentUser, err := user.Current()
	return err == nil && currentUser.Uid == "0"
}

// CheckSystemd 检查系统是否支持 systemd
func (si *SystemInstaller) CheckSystemd() error {
	if runtime.GOOS != "linux" {
		return fmt.Errorf("此功能仅支持 Linux 系统")
	}
	if err := exec.Command("systemctl", "--version").Run(); err != nil {
		return fmt.Errorf("系统不支持 systemd，请确保已安装 systemd 服务管理器")
	}
	return nil
}

// CreateDirectories 创建必要的目录
func (si *SystemInstaller) CreateDirectories() error {
	dirs := []struct {
		path string
		desc string
	}{
		{DefaultConfigDir, "配置目录"},
		{DefaultDataDir, "数据目录"},
	}

	for _, dir := range dirs {
		if si.config.DryRun {
			fmt.Printf("[DRY-RUN] 将创建目录：%s (%s)\n", dir.path, dir.desc)
			continue
		}
		si.log("创建目录：%s", dir.path)
		if err := os.MkdirAll(dir.path, 0755); err != nil {
			return fmt.Errorf("创建目录失败 %s: %v", dir.path, err)
		}
	}
	return nil
}

// GenerateDefaultConfig 生成默认配置文件（已存在则跳过）
func (si *SystemInstaller) GenerateDefaultConfig() error {
	configPath := si.configPath()

	if _, err := os.Stat(configPath); err == nil {
		si.log("配置文件已存在：%s", configPath)
		return nil
	}
	if si.config.DryRun {
		fmt.Printf("[DRY-RUN] 将创建默认配置文件：%s\n", configPath)
		return nil
	}

	si.log("创建默认配置文件：%s", configPath)
	if err := config.CreateDefaultConfig(configPath); err != nil {
		return fmt.Errorf("写入配置文件失败: %v", err)
	}
	return nil
}

// CopyBinary 复制当前二进制文件到系统目录
func (si *SystemInstaller) CopyBinary() error {
	sourcePath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("获取当前可执行文件路径失败: %v", err)
	}
	destPath := DefaultBinaryPath()

	if si.config.DryRun {
		fmt.Printf("[DRY-RUN] 将复制二进制文件：%s -> %s\n", sourcePath, destPath)
		return nil
	}

	si.log("复制二进制文件：%s -> %s", sourcePath, destPath)
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("读取二进制文件失败: %v", err)
	}
	if err := os.WriteFile(destPath, data, 0755); err != nil {
		return fmt.Errorf("写入二进制文件失败: %v", err)
	}
	return nil
}

func (si *SystemInstaller) configPath() string {
	if si.config.ConfigPath != "" {
		return si.config.ConfigPath
	}
	return DefaultConfigPath()
}

// Install 执行安装流程
func (si *SystemInstaller) Install() error {
	fmt.Println("============================================")
	fmt.Println("Privacy Guard 服务安装程序")
	fmt.Println("============================================")

	if si.config.DryRun {
		fmt.Println("[DRY-RUN 模式] 仅预览，不实际执行任何操作")
	}

	if !si.config.DryRun && !si.IsRoot() {
		return fmt.Errorf("安装需要 root 权限，请使用 sudo 运行")
	}
	if err := si.CheckSystemd(); err != nil {
		return err
	}
	if err := si.CreateDirectories(); err != nil {
		return err
	}
	if err := si.GenerateDefaultConfig(); err != nil {
		return err
	}
	if err := si.CopyBinary(); err != nil {
		return err
	}
	if err := si.WriteServiceFile(); err != nil {
		return err
	}
	if err := si.ReloadSystemd(); err != nil {
		return err
	}
	if err := si.EnableService(); err != nil {
		return err
	}
	if err := si.StartService(); err != nil {
		return err
	}

	fmt.Println("\n" + strings.Repeat("=", 44))
	fmt.Println("Privacy Guard 已成功安装！")
	fmt.Println(strings.Repeat("=", 44))

	if !si.config.DryRun {
		status, _ := si.GetServiceStatus()
		fmt.Printf("✓ 服务状态：%s\n", status)
		fmt.Printf("✓ 配置文件：%s\n", si.configPath())
		fmt.Printf("✓ 数据目录：%s\n", DefaultDataDir)
		fmt.Println("\n管理命令：")
		fmt.Println("  查看状态：  sudo systemctl status " + ServiceName)
		fmt.Println("  查看日志：  sudo journalctl -u " + ServiceName + " -f")
		fmt.Println("  卸载服务：  sudo " + BinaryName + " -s uninstall")
	}
	return nil
}

// Uninstall 执行卸载流程
func (si *SystemInstaller) Uninstall() error {
	fmt.Println("============================================")
	fmt.Println("Privacy Guard 服务卸载程序")
	fmt.Println("============================================")

	if si.config.DryRun {
		fmt.Println("[DRY-RUN 模式] 仅预览，不实际执行任何操作")
	}

	if !si.config.DryRun && !si.IsRoot() {
		return fmt.Errorf("卸载需要 root 权限，请使用 sudo 运行")
	}

	if err := si.StopService(); err != nil {
		fmt.Printf("警告：停止服务失败：%v\n", err)
	}
	if err := si.DisableService(); err != nil {
		fmt.Printf("警告：禁用服务失败：%v\n", err)
	}
	if err := si.RemoveServiceFile(); err != nil {
		return err
	}
	if err := si.ReloadSystemd(); err != nil {
		return err
	}
	if err := si.RemoveInstalledFiles(); err != nil {
		return err
	}

	fmt.Println("\n" + strings.Repeat("=", 44))
	fmt.Println("Privacy Guard 已成功卸载！")
	fmt.Println(strings.Repeat("=", 44))
	return nil
}

// Status 显示服务状态
func (si *SystemInstaller) Status() error {
	status, err := si.GetServiceStatus()
	if err != nil && status == "" {
		return fmt.Errorf("未能获取服务状态，服务可能未安装")
	}

	if status == "active" {
		fmt.Printf("✓ 服务状态：%s (运行中)\n\n", status)
		details, _ := si.GetServiceDetails()
		fmt.Println(details)
	} else {
		fmt.Printf("✗ 服务状态：%s (未运行)\n", status)
		fmt.Println("\n可能的原因：")
		fmt.Println("  1. 服务未安装，请运行：sudo " + BinaryName + " -s install")
		fmt.Println("  2. 服务启动失败，查看日志：sudo journalctl -u " + ServiceName)
		fmt.Println("  3. 配置文件错误，检查：" + DefaultConfigPath())
	}
	return nil
}

// RemoveInstalledFiles 删除安装产生的目录和文件
func (si *SystemInstaller) RemoveInstalledFiles() error {
	targets := []struct {
		path string
		desc string
	}{
		{DefaultConfigDir, "配置目录"},
		{DefaultDataDir, "数据目录"},
		{DefaultBinaryPath(), "二进制文件"},
	}

	for _, t := range targets {
		if si.config.DryRun {
			fmt.Printf("[DRY-RUN] 将删除：%s (%s)\n", t.path, t.desc)
			continue
		}
		si.log("删除：%s", t.path)
		if err := os.RemoveAll(t.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("删除 %s 失败: %v", t.path, err)
		}
	}
	return nil
}
